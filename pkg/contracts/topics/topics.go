package topics

const (
	// Texto OCR pronto para parse
	SlipOCRText = "slip_ocr_text"

	// Bilhetes já interpretados
	SlipParsed = "slip_parsed"

	// DLQs
	SlipOCRTextDLQ = "slip_ocr_text_dlq"
)

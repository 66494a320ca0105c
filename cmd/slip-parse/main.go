package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/shared/logger"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/parser"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/review"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

func main() {
	file := flag.String("file", "", "arquivo com o texto OCR (stdin quando vazio)")
	pretty := flag.Bool("pretty", false, "JSON indentado")
	debug := flag.Bool("debug", false, "log em nível debug no stderr")
	flag.Parse()

	level := "warn"
	if *debug {
		level = "debug"
	}
	log, err := logger.New("slip-parse", "local", level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer log.Sync()

	text, err := readInput(*file)
	if err != nil {
		log.Error("read input", zap.String("file", *file), zap.Error(err))
		os.Exit(1)
	}

	in := events.SlipOCRText{
		SlipID:   uuid.NewString(),
		Provider: "cli",
		OCRText:  text,
		TsUnixMs: time.Now().UnixMilli(),
	}
	out := review.NewSlipParsed(in, parser.Parse(text))
	log.Debug("parsed", zap.Int("legs", out.LegsCount), zap.Bool("needs_review", out.NeedsReview))

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		log.Error("encode output", zap.Error(err))
		os.Exit(1)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bet-slip-parser/internal/shared/metrics"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/dto"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/parser"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/review"
	"github.com/radieske/bet-slip-parser/internal/slip-parser/ws"
	"github.com/radieske/bet-slip-parser/pkg/contracts/events"
)

const defaultMaxBody = 1 << 20 // 1 MiB de texto OCR é mais que suficiente

// API expõe o parse síncrono de bilhetes e o feed WebSocket de revisão.
// Hub e Metrics são opcionais.
type API struct {
	Log          *zap.Logger
	Hub          *ws.Hub
	Metrics      *metrics.SlipMetrics
	MaxBodyBytes int64 // 0 usa 1 MiB
}

// Router retorna o roteador HTTP com os endpoints REST e o WS
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors)
	r.Post("/v1/slips/parse", a.parseSlip) // Interpreta um texto OCR
	if a.Hub != nil {
		r.Get("/v1/slips/ws", a.Hub.HandleWS) // Feed de bilhetes interpretados
	}
	return r
}

// cors libera qualquer origem; preflight responde 204 sem passar pelo handler
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) parseSlip(w http.ResponseWriter, r *http.Request) {
	limit := a.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req dto.ParseSlipRequest
	// corpo vazio vale como {}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			a.count("too_large")
			writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "payload too large"})
			return
		}
		a.count("bad_json")
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	if req.SlipID == "" {
		req.SlipID = uuid.NewString()
	}
	in := events.SlipOCRText{
		SlipID:   req.SlipID,
		LeagueID: req.LeagueID,
		UserID:   req.UserID,
		Provider: "api",
		OCRText:  req.Text(),
		TsUnixMs: time.Now().UnixMilli(),
	}

	start := time.Now()
	res := parser.Parse(in.OCRText)
	out := review.NewSlipParsed(in, res)
	a.observe(out, time.Since(start))

	a.Log.Debug("slip parsed via api",
		zap.String("slip_id", out.SlipID),
		zap.Int("legs", out.LegsCount),
		zap.Bool("needs_review", out.NeedsReview),
	)
	a.count("ok")
	writeJSON(w, http.StatusOK, out)
}

func (a *API) count(outcome string) {
	if a.Metrics != nil {
		a.Metrics.Requests.WithLabelValues(outcome).Inc()
	}
}

func (a *API) observe(out events.SlipParsed, took time.Duration) {
	if a.Metrics == nil {
		return
	}
	markets := make([]string, 0, len(out.Legs))
	for _, l := range out.Legs {
		markets = append(markets, l.Market)
	}
	a.Metrics.ObserveLegs(markets)
	a.Metrics.ParseSeconds.Observe(took.Seconds())
}

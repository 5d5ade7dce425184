package httpserver

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sugawarayuuta/sonnet"

	"github.com/rzbill/eelog/internal/recfilter"
	"github.com/rzbill/eelog/internal/ringlog"
	logpkg "github.com/rzbill/eelog/pkg/log"
)

// Server exposes one ring log over HTTP. It owns the log and serializes
// all access behind its mutex, since the log itself is single-caller.
type Server struct {
	mu     sync.Mutex
	log    *ringlog.Log
	poll   time.Duration
	logger logpkg.Logger
	srv    *http.Server
	lis    net.Listener
}

// New constructs a Server and registers routes.
func New(l *ringlog.Log, logger logpkg.Logger, poll time.Duration) *Server {
	mux := http.NewServeMux()
	s := &Server{log: l, poll: poll, logger: logger, srv: &http.Server{Handler: cors(mux)}}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/records", s.handleRecords)
	mux.HandleFunc("/v1/append", s.handleAppend)
	mux.Handle("/metrics", promhttp.Handler())
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = sonnet.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Slots       int    `json:"slots"`
	SlotSize    int    `json:"slotSize"`
	BaseAddress uint32 `json:"baseAddress"`
	WriteCursor int    `json:"writeCursor"`
	ReadCursor  int    `json:"readCursor"`
	Generation  int    `json:"generation"`
	Writing     bool   `json:"writing"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := statusResponse{
		Slots:       s.log.Slots(),
		SlotSize:    s.log.SlotSize(),
		BaseAddress: s.log.Base(),
		WriteCursor: s.log.WriteCursor(),
		ReadCursor:  s.log.ReadCursor(),
		Generation:  s.log.Generation(),
		Writing:     s.log.Writing(),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

type recordItem struct {
	Index      int    `json:"index"`
	PayloadHex string `json:"payloadHex"`
	Text       string `json:"text"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	reverse := r.URL.Query().Get("reverse") == "true"
	filter, err := recfilter.New(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad filter: %v", err))
		return
	}

	s.mu.Lock()
	items := s.collect(reverse, filter)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"records": items})
}

// collect walks the readable window under the server mutex.
func (s *Server) collect(reverse bool, filter recfilter.Filter) []recordItem {
	dst := make([]byte, s.log.SlotSize())
	items := make([]recordItem, 0, s.log.Slots()-1)
	add := func() {
		idx := s.log.ReadCursor()
		if !filter.Eval(idx, dst) {
			return
		}
		items = append(items, recordItem{
			Index:      idx,
			PayloadHex: hex.EncodeToString(dst),
			Text:       printable(dst),
		})
	}
	if reverse {
		s.log.ReadLast(dst)
		add()
		for s.log.ReadPrev(dst) {
			add()
		}
		return items
	}
	s.log.ReadFirst(dst)
	add()
	for s.log.ReadNext(dst) {
		add()
	}
	return items
}

// printable maps non-printable bytes to '.' for the text view.
func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7F {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

type appendRequest struct {
	PayloadHex  string `json:"payloadHex"`
	PayloadText string `json:"payloadText"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req appendRequest
	if err := sonnet.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad body: %v", err))
		return
	}
	payload, err := decodePayload(req, s.log.SlotSize())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	err = s.log.AppendBlocking(r.Context(), payload, s.poll)
	cursor := s.log.WriteCursor()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("append: %v", err))
		return
	}
	s.logger.Debug("record appended", logpkg.Int("write_cursor", cursor))
	writeJSON(w, http.StatusAccepted, map[string]any{"writeCursor": cursor})
}

// decodePayload builds the fixed-size slot payload, zero-padded on the
// right. Exactly one of the two body fields must be set.
func decodePayload(req appendRequest, slotSize int) ([]byte, error) {
	var raw []byte
	switch {
	case req.PayloadHex != "" && req.PayloadText != "":
		return nil, fmt.Errorf("payloadHex and payloadText are mutually exclusive")
	case req.PayloadHex != "":
		b, err := hex.DecodeString(req.PayloadHex)
		if err != nil {
			return nil, fmt.Errorf("bad payloadHex: %v", err)
		}
		raw = b
	case req.PayloadText != "":
		raw = []byte(req.PayloadText)
	default:
		return nil, fmt.Errorf("payloadHex or payloadText required")
	}
	if len(raw) > slotSize {
		return nil, fmt.Errorf("payload is %d bytes, slot holds %d", len(raw), slotSize)
	}
	out := make([]byte, slotSize)
	copy(out, raw)
	return out, nil
}

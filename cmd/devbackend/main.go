// devbackend is a stand-in for the assistant backend service. It serves the
// same HTTP surface with canned data so the desktop client can be exercised
// without the real RAG/speech pipeline. POST /debug/wake simulates a wake
// word followed by a transcribed voice query.
package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	chunkDelay := flag.Duration("chunk-delay", 60*time.Millisecond, "delay between stream chunks")
	flag.Parse()

	srv := newServer(*chunkDelay)
	log.Printf("devbackend listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.router()); err != nil {
		log.Fatal(err)
	}
}

type server struct {
	chunkDelay time.Duration

	mu               sync.Mutex
	handshakePending bool
	queryPending     string
}

func newServer(chunkDelay time.Duration) *server {
	return &server{chunkDelay: chunkDelay}
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Post("/chat", s.handleChat)
	r.Post("/stream_chat", s.handleStreamChat)
	r.Post("/speak", s.handleSpeak)
	r.Get("/get_handshake_reply", s.handleHandshakeReply)
	r.Get("/get_voice_query", s.handleVoiceQuery)
	r.Post("/upload_doc", s.handleUploadDoc)
	r.Get("/audio/{clip}", s.handleAudio)
	r.Post("/debug/wake", s.handleWake)

	return r
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question  string `json:"question"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"answer": cannedAnswer(req.Question)})
}

func (s *server) handleStreamChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input     string `json:"input"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")

	for _, word := range strings.Fields(cannedAnswer(req.Input)) {
		fmt.Fprint(w, word+" ")
		flusher.Flush()
		time.Sleep(s.chunkDelay)
	}
}

func (s *server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question  string `json:"question"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"audio_url": "/audio/answer.wav"})
}

func (s *server) handleHandshakeReply(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ready := s.handshakePending
	s.handshakePending = false
	s.mu.Unlock()

	if !ready {
		writeJSON(w, map[string]string{"status": "waiting"})
		return
	}
	writeJSON(w, map[string]string{"status": "ready", "audio_url": "/audio/handshake.wav"})
}

func (s *server) handleVoiceQuery(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	query := s.queryPending
	s.queryPending = ""
	s.mu.Unlock()

	if query == "" {
		writeJSON(w, map[string]string{"status": "listening"})
		return
	}
	writeJSON(w, map[string]string{"status": "ready", "query": query})
}

func (s *server) handleUploadDoc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".txt" {
		// The real backend reports this in-band with HTTP 200.
		writeJSON(w, map[string]string{"error": "Unsupported file type. Please upload .pdf or .txt"})
		return
	}
	writeJSON(w, map[string]string{"status": "success", "filename": header.Filename})
}

func (s *server) handleAudio(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(toneWAV(440, 300*time.Millisecond))
}

func (s *server) handleWake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		req.Query = "tell me a joke"
	}

	s.mu.Lock()
	s.handshakePending = true
	s.queryPending = req.Query
	s.mu.Unlock()

	writeJSON(w, map[string]string{"status": "queued"})
}

func cannedAnswer(question string) string {
	return fmt.Sprintf("Boss, here is what I found about %q. This is a canned devbackend answer.", strings.TrimSpace(question))
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

// toneWAV renders a mono 16-bit PCM sine clip so playback paths have real
// audio to chew on.
func toneWAV(freq float64, d time.Duration) []byte {
	const sampleRate = 16000
	n := int(float64(sampleRate) * d.Seconds())

	var data bytes.Buffer
	for i := 0; i < n; i++ {
		sample := int16(12000 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
		_ = binary.Write(&data, binary.LittleEndian, sample)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(36+data.Len()))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	_ = binary.Write(&out, binary.LittleEndian, uint32(16))
	_ = binary.Write(&out, binary.LittleEndian, uint16(1))
	_ = binary.Write(&out, binary.LittleEndian, uint16(1))
	_ = binary.Write(&out, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&out, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&out, binary.LittleEndian, uint16(2))
	_ = binary.Write(&out, binary.LittleEndian, uint16(16))
	out.WriteString("data")
	_ = binary.Write(&out, binary.LittleEndian, uint32(data.Len()))
	out.Write(data.Bytes())
	return out.Bytes()
}

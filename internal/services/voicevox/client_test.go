package voicevox_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visionforge/internal/services/voicevox"
)

func newFakeEngine(t *testing.T, synthStatus int) (*httptest.Server, *map[string]any) {
	t.Helper()

	capturedQuery := &map[string]any{}
	mux := http.NewServeMux()
	mux.HandleFunc("/audio_query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Query().Get("text") == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"accent_phrases":  []any{},
			"speedScale":      1.0,
			"intonationScale": 1.0,
			"outputSamplingRate": 24000,
		})
	})
	mux.HandleFunc("/synthesis", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(capturedQuery); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if synthStatus != http.StatusOK {
			w.WriteHeader(synthStatus)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFfakewavdata")) //nolint:errcheck
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, capturedQuery
}

func TestSynthesizeAppliesTuning(t *testing.T) {
	server, captured := newFakeEngine(t, http.StatusOK)
	client := voicevox.NewHTTP(voicevox.WithBaseURL(server.URL))

	audio, err := client.Synthesize(context.Background(), voicevox.Request{
		Text:             "こんにちは",
		SpeakerID:        10,
		SpeedScale:       1.15,
		IntonationScale:  1.2,
		PrePhonemeLength: 0.1,
	})
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(audio) == 0 {
		t.Fatal("expected audio bytes")
	}

	query := *captured
	if got := query["speedScale"]; got != 1.15 {
		t.Fatalf("expected speedScale 1.15 in query, got %v", got)
	}
	if got := query["intonationScale"]; got != 1.2 {
		t.Fatalf("expected intonationScale 1.2 in query, got %v", got)
	}
	if got := query["prePhonemeLength"]; got != 0.1 {
		t.Fatalf("expected prePhonemeLength 0.1 in query, got %v", got)
	}
}

func TestSynthesizeLeavesUnsetTuningAlone(t *testing.T) {
	server, captured := newFakeEngine(t, http.StatusOK)
	client := voicevox.NewHTTP(voicevox.WithBaseURL(server.URL))

	if _, err := client.Synthesize(context.Background(), voicevox.Request{
		Text:      "テスト",
		SpeakerID: 3,
	}); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}

	query := *captured
	if got := query["speedScale"]; got != 1.0 {
		t.Fatalf("expected engine default speedScale untouched, got %v", got)
	}
	if _, ok := query["prePhonemeLength"]; ok {
		t.Fatal("expected prePhonemeLength untouched when unset")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := voicevox.NewHTTP()
	if _, err := client.Synthesize(context.Background(), voicevox.Request{SpeakerID: 10}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesizeSurfacesEngineFailure(t *testing.T) {
	server, _ := newFakeEngine(t, http.StatusInternalServerError)
	client := voicevox.NewHTTP(voicevox.WithBaseURL(server.URL))

	if _, err := client.Synthesize(context.Background(), voicevox.Request{
		Text:      "失敗",
		SpeakerID: 10,
	}); err == nil {
		t.Fatal("expected error for synthesis failure")
	}
}

func TestSynthesizeUnreachableEngine(t *testing.T) {
	client := voicevox.NewHTTP(voicevox.WithBaseURL("http://127.0.0.1:1"))
	if _, err := client.Synthesize(context.Background(), voicevox.Request{
		Text:      "到達不能",
		SpeakerID: 10,
	}); err == nil {
		t.Fatal("expected error for unreachable engine")
	}
}

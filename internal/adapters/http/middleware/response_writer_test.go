package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_Records(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		do          func(rw *responseWriter)
		wantStatus  int
		wantWritten int64
		wantHeader  bool
	}{
		{
			name:       "untouched defaults to 200",
			do:         func(*responseWriter) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "explicit status",
			do:         func(rw *responseWriter) { rw.WriteHeader(http.StatusNotFound) },
			wantStatus: http.StatusNotFound,
			wantHeader: true,
		},
		{
			name: "first status wins",
			do: func(rw *responseWriter) {
				rw.WriteHeader(http.StatusCreated)
				rw.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusCreated,
			wantHeader: true,
		},
		{
			name: "writes accumulate",
			do: func(rw *responseWriter) {
				_, _ = rw.Write([]byte("[{"))
				_, _ = rw.Write([]byte("}]"))
			},
			wantStatus:  http.StatusOK,
			wantWritten: 4,
			wantHeader:  true,
		},
		{
			name: "write after status keeps status",
			do: func(rw *responseWriter) {
				rw.WriteHeader(http.StatusAccepted)
				_, _ = rw.Write([]byte("ok"))
				rw.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus:  http.StatusAccepted,
			wantWritten: 2,
			wantHeader:  true,
		},
		{
			name:       "flush commits header",
			do:         func(rw *responseWriter) { rw.Flush() },
			wantStatus: http.StatusOK,
			wantHeader: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			rw := newResponseWriter(rec)
			tt.do(rw)

			if rw.statusCode != tt.wantStatus {
				t.Errorf("statusCode = %d, want %d", rw.statusCode, tt.wantStatus)
			}
			if rw.written != tt.wantWritten {
				t.Errorf("written = %d, want %d", rw.written, tt.wantWritten)
			}
			if rw.headerWritten != tt.wantHeader {
				t.Errorf("headerWritten = %v, want %v", rw.headerWritten, tt.wantHeader)
			}
		})
	}
}

func TestResponseWriter_FlushReachesRecorder(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newResponseWriter(rec).Flush()

	if !rec.Flushed {
		t.Error("recorder Flushed = false, want true")
	}
}

func TestResponseWriter_ResponseControllerUnwraps(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if got := rw.Unwrap(); got != rec {
		t.Errorf("Unwrap() = %v, want the wrapped recorder", got)
	}
	if err := http.NewResponseController(rw).Flush(); err != nil {
		t.Errorf("ResponseController.Flush() error = %v", err)
	}
}

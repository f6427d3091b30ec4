package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/internal/metrics"
	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/output"
	"github.com/ccollicutt/logtally/pkg/parser"
)

var (
	// errMissingBody means the request carried nothing to analyze.
	errMissingBody = errors.New("request has no log content")

	errMalformed = errors.New("malformed request body")
)

// AnalyzeHandler runs one independent analysis per request.
type AnalyzeHandler struct {
	maxUploadBytes int64
	timeout        time.Duration
}

// NewAnalyzeHandler creates a handler that caps bodies at maxUploadBytes and
// abandons any analysis running longer than timeout.
func NewAnalyzeHandler(maxUploadBytes int64, timeout time.Duration) *AnalyzeHandler {
	return &AnalyzeHandler{maxUploadBytes: maxUploadBytes, timeout: timeout}
}

// Analyze handles POST /api/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	// The deadline covers reading the body as well as the fold. The
	// connection read deadline unblocks a body that stalls mid-line.
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	deadline, _ := ctx.Deadline()
	if err := http.NewResponseController(w).SetReadDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("setting read deadline: %v", err)
	}

	source, name, err := openSource(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	defer source.Close()

	start := time.Now()
	result, err := analyzer.NewAnalyzer(analyzer.WithSourceName(name)).Analyze(ctx, source)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		h.fail(w, err)
		return
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.ObserveStats(result.Stats)

	report := output.NewReport(result)
	formatName := "json"
	if wantsHTML(r) {
		formatName = "html"
	}
	formatter, err := output.NewFormatter(formatName, output.FormatOptions{})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}

	w.Header().Set("Content-Type", formatter.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := formatter.Format(r.Context(), report, w); err != nil {
		log.Printf("writing %s response: %v", formatName, err)
	}
}

// fail maps an error from body handling or analysis onto a status and code.
func (h *AnalyzeHandler) fail(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errMissingBody), errors.Is(err, errMalformed):
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
	case errors.As(err, &maxErr):
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultTooLarge).Inc()
		WriteError(w, http.StatusRequestEntityTooLarge, ErrPayloadTooLarge, "request body exceeds the upload limit")
	case errors.Is(err, parser.ErrInvalidEncoding):
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultDecodeError).Inc()
		WriteError(w, http.StatusBadRequest, ErrDecode, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultTimeout).Inc()
		WriteError(w, http.StatusServiceUnavailable, ErrTimeout, "analysis timed out")
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads this response.
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultCanceled).Inc()
		WriteError(w, StatusClientClosedRequest, ErrCanceled, "request canceled")
	default:
		metrics.AnalysesTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Printf("analysis failed: %v", err)
		WriteError(w, http.StatusInternalServerError, ErrInternalError, "failed to read log content")
	}
}

// openSource picks the log content out of the request according to its
// content type. The returned name is recorded in the report metadata.
func openSource(r *http.Request) (parser.LineSource, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		return openMultipart(r)

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, "", asMalformed(err)
		}
		if !r.PostForm.Has("text") {
			return nil, "", errMissingBody
		}
		return parser.NewReaderSource("text", strings.NewReader(r.PostForm.Get("text"))), "text", nil

	case "application/json":
		var body struct {
			Text *string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if err == io.EOF {
				return nil, "", errMissingBody
			}
			return nil, "", asMalformed(err)
		}
		if body.Text == nil {
			return nil, "", errMissingBody
		}
		return parser.NewReaderSource("text", strings.NewReader(*body.Text)), "text", nil

	default:
		if r.Body == nil || r.Body == http.NoBody {
			return nil, "", errMissingBody
		}
		br, err := nonEmpty(r.Body)
		if err != nil {
			return nil, "", err
		}
		if br == nil {
			return nil, "", errMissingBody
		}
		return parser.NewReaderSource("body", br), "body", nil
	}
}

// openMultipart streams the first non-empty "file" or "text" part without
// buffering the upload to disk.
func openMultipart(r *http.Request) (parser.LineSource, string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", asMalformed(err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, "", errMissingBody
		}
		if err != nil {
			return nil, "", asMalformed(err)
		}

		name := part.FormName()
		if name != "file" && name != "text" {
			_ = part.Close()
			continue
		}

		br, err := nonEmpty(part)
		if err != nil {
			return nil, "", err
		}
		if br == nil {
			continue
		}
		if name == "file" {
			name = part.FileName()
			if name == "" {
				name = "upload"
			}
		}
		return parser.NewReaderSource(name, br), name, nil
	}
}

// nonEmpty buffers r and returns nil if it holds no bytes at all.
func nonEmpty(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return br, nil
}

// asMalformed tags a parse error as a client mistake, unless it came from
// the body size limit.
func asMalformed(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return fmt.Errorf("%w: %v", errMalformed, err)
}

// wantsHTML reports whether the client asked for an HTML page.
func wantsHTML(r *http.Request) bool {
	if format := r.URL.Query().Get("format"); format != "" {
		return format == "html"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

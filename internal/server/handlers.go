package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/glyphdust/pkg/errors"
	gio "github.com/matzehuels/glyphdust/pkg/io"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
	"github.com/matzehuels/glyphdust/pkg/sample"
)

// maxMarkupBytes bounds icon request bodies.
const maxMarkupBytes = 4 << 20

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIcon converts markup sent as JSON options.
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMarkupBytes))
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if opts.Markup == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "markup is required"))
		return
	}
	opts.Source = pipeline.SourceIcon
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, err)
		return
	}
	s.convert(w, r, opts)
}

// handleImage converts a raw image body; options come from the query.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, sample.MaxImageBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read image"))
		return
	}
	opts := pipeline.Options{Source: pipeline.SourceImage, Image: data}
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, err)
		return
	}
	s.convert(w, r, opts)
}

// convert runs the pipeline for one format, stores the buffer as a stream
// session and writes the artifact.
func (s *Server) convert(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	format := pipeline.FormatJSON
	if len(opts.Formats) > 0 {
		format = opts.Formats[0]
	}
	opts.Formats = []string{format}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.storeSession(r.Context(), opts.Source, result)
	if err != nil {
		s.logger.Warn("store stream session", "error", err)
	} else {
		w.Header().Set("Location", "/v1/stream/"+id)
		w.Header().Set("X-Stream-ID", id)
	}

	cacheState := "miss"
	if result.CacheInfo.ConvertHit {
		cacheState = "hit"
	}
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-Particles", strconv.Itoa(result.Stats.Particles))
	if result.Stats.Fallback {
		w.Header().Set("X-Fallback", "true")
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(result.Artifacts[format])
}

// storeSession keeps the converted buffer and its profile under a new id.
func (s *Server) storeSession(ctx context.Context, source string, result *pipeline.Result) (string, error) {
	p := result.Profile
	data, err := gio.Marshal(gio.NewDocument(result.Buffer, gio.Source(source), &p))
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	return id, s.sessions.Set(ctx, sessionKey(id), data, s.sessionTTL)
}

// loadSession returns a stored session, or NOT_FOUND.
func (s *Server) loadSession(ctx context.Context, id string) (gio.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return gio.Document{}, errors.New(errors.ErrCodeNotFound, "unknown stream %q", id)
	}
	data, ok, err := s.sessions.Get(ctx, sessionKey(id))
	if err != nil {
		return gio.Document{}, err
	}
	if !ok {
		return gio.Document{}, errors.New(errors.ErrCodeNotFound, "unknown stream %q", id)
	}
	return gio.Unmarshal(data)
}

func sessionKey(id string) string { return "stream:" + id }

// applyQuery reads option overrides from query parameters.
func applyQuery(opts *pipeline.Options, q url.Values) error {
	ints := map[string]*int{
		"particle_count":  &opts.ParticleCount,
		"max_dimension":   &opts.MaxDimension,
		"alpha_threshold": &opts.AlphaThreshold,
		"ticks":           &opts.Ticks,
		"width":           &opts.Width,
		"height":          &opts.Height,
	}
	optional := map[string]**float64{
		"depth":            &opts.Depth,
		"influence_radius": &opts.InfluenceRadius,
		"strength":         &opts.Strength,
	}
	floats := map[string]*float64{
		"contrast":   &opts.Contrast,
		"brightness": &opts.Brightness,
		"size":       &opts.ParticleSize,
	}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
			}
			*dst = n
		}
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
			}
			*dst = f
		}
	}
	for name, dst := range optional {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
			}
			*dst = pipeline.Float(f)
		}
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "seed")
		}
		opts.Seed = n
	}
	if v := q.Get("grayscale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grayscale")
		}
		opts.Grayscale = b
	}
	if v := q.Get("tint"); v != "" {
		opts.TintColor = v
	}
	if v := q.Get("shape"); v != "" {
		opts.ParticleShape = v
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	return nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusOf maps an error code onto an HTTP status.
func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidShape,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeDecodeFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSizeMismatch:
		return http.StatusConflict
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/famscope/famscope/internal/domain/family"
	"github.com/famscope/famscope/internal/domain/person"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/pkg/errors"
)

// LookupResult is the normalized output of one upstream family-tree query.
type LookupResult struct {
	Principal person.Person   `json:"principal"`
	Quantity  int             `json:"quantity"`
	Relatives []person.Person `json:"relatives"`
}

// TreeProvider queries the upstream family-tree service for one document id.
type TreeProvider interface {
	FamilyTree(ctx context.Context, dni string) (*LookupResult, error)
}

// Renderer turns an assembled report into PDF bytes.  Rendering is atomic:
// it either returns the complete document or an error, never a partial
// stream.
type Renderer interface {
	Render(ctx context.Context, rpt *Report) ([]byte, error)
}

// ArtifactStore is the object-storage artifact cache.  Both operations
// return a client-reachable URL for the stored object.
type ArtifactStore interface {
	Exists(ctx context.Context, key string) (url string, found bool, err error)
	Upload(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
}

// ResponseCache caches upstream lookup responses.  The signature matches the
// redis cache collaborator.
type ResponseCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// Observer receives generation outcomes for metrics.  All methods must be
// safe for concurrent use.
type Observer interface {
	ObserveGeneration(outcome string, elapsed time.Duration)
	ObserveArtifactCache(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveGeneration(string, time.Duration) {}
func (nopObserver) ObserveArtifactCache(bool)               {}

// Report is one fully assembled report, ready for rendering.
type Report struct {
	ID          uuid.UUID
	DNI         string
	Principal   person.Person
	Group       family.Group
	Stats       family.Statistics
	Pages       []PageDescriptor
	GeneratedAt time.Time
}

// Summary is the JSON body returned by the consultation endpoint.
type Summary struct {
	DNI     string      `json:"dni"`
	Nombres string      `json:"nombres"`
	Estado  string      `json:"estado"`
	Archivo ArchiveInfo `json:"archivo"`
}

// ArchiveInfo points the caller at the downloadable report.
type ArchiveInfo struct {
	URL string `json:"url"`
}

// GenerateResult is the outcome of one report generation.  Exactly one of
// Data and CachedURL is set: Data carries freshly rendered bytes, CachedURL
// points at a previously stored artifact the caller should redirect to.
type GenerateResult struct {
	Data      []byte
	CachedURL string
	Filename  string
}

// Config carries the tunables the service reads per request.
type Config struct {
	PageCapacity  int
	AgeBrackets   []int
	StrictDNI     bool
	PublicBaseURL string
	LookupTTL     time.Duration
}

// Service orchestrates one report request end to end: validate, look up,
// classify, aggregate, assemble, render, store.  Services hold no per-request
// state and are safe for concurrent use.
type Service struct {
	cfg      Config
	provider TreeProvider
	renderer Renderer
	store    ArtifactStore
	cache    ResponseCache
	observer Observer
	logger   logging.Logger
	now      func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithArtifactStore enables the object-storage artifact cache.
func WithArtifactStore(store ArtifactStore) Option {
	return func(s *Service) { s.store = store }
}

// WithResponseCache enables the upstream response cache.
func WithResponseCache(cache ResponseCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithObserver wires generation metrics.
func WithObserver(obs Observer) Option {
	return func(s *Service) { s.observer = obs }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a report service.  provider and renderer are required;
// the artifact store and response cache are optional and their absence
// degrades to always-generate and always-query respectively.
func NewService(provider TreeProvider, renderer Renderer, cfg Config, log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &Service{
		cfg:      cfg,
		provider: provider,
		renderer: renderer,
		observer: nopObserver{},
		logger:   log.Named("report"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var dniPattern = regexp.MustCompile(`^[0-9]{8}$`)

// ValidateDNI checks a document id.  Presence is always required; strict
// mode additionally requires exactly eight digits.
func ValidateDNI(dni string, strict bool) error {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return errors.New(errors.ErrCodeDNIInvalid, "dni is required")
	}
	if strict && !dniPattern.MatchString(dni) {
		return errors.New(errors.ErrCodeDNIInvalid, "dni must be exactly 8 digits").
			WithDetail(fmt.Sprintf("got %q", dni))
	}
	return nil
}

// ArtifactKey returns the object-storage key for one subject's report.
func ArtifactKey(dni string) string {
	return dni + "_arbol.pdf"
}

// Filename returns the download filename for one subject's report.
func Filename(dni string) string {
	return fmt.Sprintf("Arbol_%s.pdf", dni)
}

// Consultar resolves the subject's identity and returns the consultation
// summary without rendering anything.
func (s *Service) Consultar(ctx context.Context, dni string) (*Summary, error) {
	dni = strings.TrimSpace(dni)
	if err := ValidateDNI(dni, s.cfg.StrictDNI); err != nil {
		return nil, err
	}

	res, err := s.fetchTree(ctx, dni)
	if err != nil {
		return nil, err
	}

	return &Summary{
		DNI:     dni,
		Nombres: res.Principal.FullName(),
		Estado:  "GENERADO",
		Archivo: ArchiveInfo{URL: s.downloadURL(dni)},
	}, nil
}

// Generate produces the report for one subject.  A previously stored
// artifact short-circuits generation; otherwise the full pipeline runs and
// the result is stored best-effort.
func (s *Service) Generate(ctx context.Context, dni string) (*GenerateResult, error) {
	dni = strings.TrimSpace(dni)
	if err := ValidateDNI(dni, s.cfg.StrictDNI); err != nil {
		return nil, err
	}

	start := s.now()
	key := ArtifactKey(dni)

	if s.store != nil {
		url, found, err := s.store.Exists(ctx, key)
		if err != nil {
			s.logger.Warn("artifact store check failed, generating",
				logging.String("dni", dni), logging.Err(err))
		} else if found {
			s.observer.ObserveArtifactCache(true)
			s.observer.ObserveGeneration("cached", s.now().Sub(start))
			s.logger.Debug("serving stored artifact", logging.String("dni", dni), logging.String("url", url))
			return &GenerateResult{CachedURL: url, Filename: Filename(dni)}, nil
		} else {
			s.observer.ObserveArtifactCache(false)
		}
	}

	rpt, err := s.buildReport(ctx, dni)
	if err != nil {
		s.observer.ObserveGeneration("error", s.now().Sub(start))
		return nil, err
	}

	data, err := s.renderer.Render(ctx, rpt)
	if err != nil {
		s.observer.ObserveGeneration("error", s.now().Sub(start))
		return nil, errors.Wrap(err, errors.ErrCodeRenderFailed, "report rendering failed")
	}

	if s.store != nil {
		if _, err := s.store.Upload(ctx, key, data, "application/pdf"); err != nil {
			s.logger.Warn("artifact upload failed, serving generated bytes",
				logging.String("dni", dni), logging.Err(err))
		}
	}

	s.observer.ObserveGeneration("generated", s.now().Sub(start))
	s.logger.Info("report generated",
		logging.String("dni", dni),
		logging.Int("relatives", rpt.Group.Total()),
		logging.Int("pages", len(rpt.Pages)),
		logging.Duration("elapsed", s.now().Sub(start)))
	return &GenerateResult{Data: data, Filename: Filename(dni)}, nil
}

// buildReport runs the lookup-to-assembly pipeline for one subject.
func (s *Service) buildReport(ctx context.Context, dni string) (*Report, error) {
	res, err := s.fetchTree(ctx, dni)
	if err != nil {
		return nil, err
	}

	group := family.Classify(res.Principal, res.Relatives)
	stats := family.Aggregate(group, s.cfg.AgeBrackets)
	pages := Assemble(res.Principal, group, stats, s.cfg.PageCapacity)

	return &Report{
		ID:          uuid.New(),
		DNI:         dni,
		Principal:   res.Principal,
		Group:       group,
		Stats:       stats,
		Pages:       pages,
		GeneratedAt: s.now(),
	}, nil
}

// fetchTree queries the upstream, through the response cache when one is
// wired.  Cache infrastructure faults degrade to a direct upstream call;
// lookup errors always propagate.
func (s *Service) fetchTree(ctx context.Context, dni string) (*LookupResult, error) {
	if s.cache == nil {
		return s.provider.FamilyTree(ctx, dni)
	}

	var result LookupResult
	err := s.cache.GetOrSet(ctx, "tree:"+dni, &result, s.cfg.LookupTTL,
		func(ctx context.Context) (interface{}, error) {
			res, err := s.provider.FamilyTree(ctx, dni)
			if err != nil {
				return nil, err
			}
			return res, nil
		})
	if err == nil {
		return &result, nil
	}
	if isCacheFault(err) {
		s.logger.Warn("response cache unavailable, querying upstream directly",
			logging.String("dni", dni), logging.Err(err))
		return s.provider.FamilyTree(ctx, dni)
	}
	return nil, err
}

// isCacheFault reports whether err originated in the cache layer rather
// than the loader.
func isCacheFault(err error) bool {
	return errors.IsCode(err, errors.ErrCodeCacheError) ||
		errors.IsCode(err, errors.ErrCodeSerialization) ||
		errors.IsCode(err, errors.ErrCodeServiceUnavailable)
}

func (s *Service) downloadURL(dni string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/descargar-arbol-pdf?dni=%s", base, dni)
}

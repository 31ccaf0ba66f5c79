// Package flatten runs a complete scan, order, shard, render and write cycle.
package flatten

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/codeflat/internal/config"
	"github.com/temirov/codeflat/internal/matcher"
	"github.com/temirov/codeflat/internal/order"
	"github.com/temirov/codeflat/internal/render"
	"github.com/temirov/codeflat/internal/services/clipboard"
	"github.com/temirov/codeflat/internal/shard"
	"github.com/temirov/codeflat/internal/tokenizer"
	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/walker"
)

const (
	outputFilePermissions = 0o644
	outputFileFlags       = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
)

// Options configures one run. Use DefaultOptions as a starting point.
type Options struct {
	Root            string
	OutputPath      string
	MaxTokens       int
	MaxFileSize     int64
	IgnorePatterns  []string
	Sharding        bool
	UseGitignore    bool
	UseIgnoreFile   bool
	CopyToClipboard bool
	// TokenizerModel enables exact token counting of written documents when non-empty.
	TokenizerModel string
}

// DefaultOptions returns the documented defaults for the given root.
func DefaultOptions(root string) Options {
	return Options{
		Root:          root,
		OutputPath:    DefaultOutputPath,
		MaxTokens:     shard.DefaultBudget,
		MaxFileSize:   walker.DefaultMaxFileSize,
		Sharding:      true,
		UseGitignore:  true,
		UseIgnoreFile: true,
	}
}

// CounterFactory constructs an exact token counter.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)

// FileCreator opens the destination of a rendered document for writing.
type FileCreator func(path string) (io.WriteCloser, error)

func createOutputFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, outputFileFlags, outputFilePermissions)
}

// Service executes flatten runs.
type Service struct {
	logger         *zap.Logger
	copier         clipboard.Copier
	counterFactory CounterFactory
	createFile     FileCreator
	now            func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used for document timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// WithCounterFactory overrides how exact token counters are created.
func WithCounterFactory(factory CounterFactory) ServiceOption {
	return func(service *Service) { service.counterFactory = factory }
}

// WithFileCreator overrides how document files are opened.
func WithFileCreator(creator FileCreator) ServiceOption {
	return func(service *Service) { service.createFile = creator }
}

// NewService constructs a Service. A nil logger discards diagnostics and a nil
// copier disables clipboard support.
func NewService(logger *zap.Logger, copier clipboard.Copier, options ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &Service{
		logger:         logger,
		copier:         copier,
		counterFactory: tokenizer.NewCounter,
		createFile:     createOutputFile,
		now:            time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// plannedDocument is rendered straight into its file when written.
type plannedDocument struct {
	path      string
	kind      types.DocumentKind
	ordinal   int
	fileCount int
	render    func(io.Writer) error
}

// Run scans options.Root and writes either one full document or shard documents
// plus an index. A scan without admissible files writes nothing and returns a
// result with Empty set.
func (service *Service) Run(options Options) (types.RunResult, error) {
	validatedRoot, rootError := ValidateRoot(options.Root)
	if rootError != nil {
		return types.RunResult{}, rootError
	}
	absoluteRoot := validatedRoot.AbsolutePath
	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	absoluteOutput, outputError := filepath.Abs(outputPath)
	if outputError != nil {
		return types.RunResult{}, fmt.Errorf("resolve output path %s: %w", outputPath, outputError)
	}

	fileMatcher, matcherError := service.buildMatcher(absoluteRoot, absoluteOutput, options)
	if matcherError != nil {
		return types.RunResult{}, matcherError
	}

	catalog, statistics := walker.New(fileMatcher, options.MaxFileSize, service.logger).Scan(absoluteRoot)
	result := types.RunResult{Root: absoluteRoot, Statistics: statistics}
	if len(catalog) == 0 {
		result.Empty = true
		return result, nil
	}
	catalog = order.Order(catalog)

	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = shard.DefaultBudget
	}
	renderer := render.New(absoluteRoot, service.now())

	var plan []plannedDocument
	if options.Sharding && tokenizer.EstimateTokens(statistics.TotalSizeBytes) > maxTokens {
		shards := shard.Partition(catalog, maxTokens)
		plan = planShardedDocuments(renderer, catalog, statistics, shards, maxTokens, absoluteOutput)
		result.Sharded = true
		result.Statistics.Shards = len(shards)
	} else {
		plan = []plannedDocument{{
			path:      absoluteOutput,
			kind:      types.DocumentKindFull,
			fileCount: len(catalog),
			render: func(writer io.Writer) error {
				return renderer.WriteFull(writer, catalog, statistics)
			},
		}}
		result.Statistics.Shards = 1
	}

	counter, model := service.exactCounter(options.TokenizerModel)
	result.TokenizerModel = model

	for _, document := range plan {
		written, writeError := service.writeDocument(document, counter)
		if writeError != nil {
			return result, writeError
		}
		if document.kind != types.DocumentKindIndex {
			result.Statistics.EstimatedTokens += written.EstimatedTokens
		}
		result.Documents = append(result.Documents, written)
	}

	if options.CopyToClipboard {
		result.Copied = service.copyDocument(result.Documents[len(result.Documents)-1].Path)
	}
	return result, nil
}

func planShardedDocuments(
	renderer *render.Renderer,
	catalog []types.FileRecord,
	statistics types.ScanStatistics,
	shards []types.Shard,
	maxTokens int,
	absoluteOutput string,
) []plannedDocument {
	plan := make([]plannedDocument, 0, len(shards)+1)
	for shardIndex := range shards {
		ordinal := shardIndex + 1
		documentShard := shards[shardIndex]
		plan = append(plan, plannedDocument{
			path:      ShardFileName(absoluteOutput, ordinal),
			kind:      types.DocumentKindShard,
			ordinal:   ordinal,
			fileCount: len(documentShard.Files),
			render: func(writer io.Writer) error {
				return renderer.WriteShard(writer, documentShard, ordinal, len(shards))
			},
		})
	}
	index := shard.BuildIndex(shards, maxTokens, func(ordinal int) string {
		return filepath.Base(ShardFileName(absoluteOutput, ordinal))
	})
	plan = append(plan, plannedDocument{
		path:      IndexFileName(absoluteOutput),
		kind:      types.DocumentKindIndex,
		fileCount: len(catalog),
		render: func(writer io.Writer) error {
			return renderer.WriteIndex(writer, index, catalog, statistics)
		},
	})
	return plan
}

// ValidateRoot resolves root to a clean absolute path and checks that it is an
// existing directory. Failures wrap ErrInvalidRoot.
func ValidateRoot(root string) (types.ValidatedPath, error) {
	if root == "" {
		return types.ValidatedPath{}, fmt.Errorf("%w: no root directory given", ErrInvalidRoot)
	}
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return types.ValidatedPath{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf("%w: path '%s' does not exist", ErrInvalidRoot, root)
		}
		return types.ValidatedPath{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, statError)
	}
	if !rootInfo.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf("%w: path '%s' is not a directory", ErrInvalidRoot, root)
	}
	return types.ValidatedPath{AbsolutePath: absoluteRoot, IsDir: true}, nil
}

func (service *Service) buildMatcher(absoluteRoot string, absoluteOutput string, options Options) (*matcher.Matcher, error) {
	matcherOptions := []matcher.Option{matcher.WithPatterns(options.IgnorePatterns...)}
	if options.UseIgnoreFile {
		ignoreFilePatterns, loadError := config.LoadIgnoreFilePatterns(filepath.Join(absoluteRoot, config.IgnoreFileName))
		if loadError != nil {
			return nil, loadError
		}
		matcherOptions = append(matcherOptions, matcher.WithPatterns(ignoreFilePatterns...))
	}
	if options.UseGitignore {
		gitIgnore, loadError := config.LoadGitIgnore(absoluteRoot)
		if loadError != nil {
			return nil, loadError
		}
		if gitIgnore != nil {
			matcherOptions = append(matcherOptions, matcher.WithExcluder(gitIgnore))
		}
	}
	if excluder := newArtifactExcluder(absoluteRoot, absoluteOutput); excluder != nil {
		matcherOptions = append(matcherOptions, matcher.WithExcluder(excluder))
	}
	return matcher.New(matcherOptions...), nil
}

// exactCounter creates the optional exact counter. Failures are logged and
// leave the run on heuristic estimates only.
func (service *Service) exactCounter(model string) (tokenizer.Counter, string) {
	if model == "" || service.counterFactory == nil {
		return nil, ""
	}
	counter, resolvedModel, counterError := service.counterFactory(tokenizer.Config{Model: model})
	if counterError != nil {
		service.logger.Warn("exact token counting disabled", zap.String("model", model), zap.Error(counterError))
		return nil, ""
	}
	return counter, resolvedModel
}

// writeDocument streams one document to disk. Exact counting reads the
// finished file back, so it holds a whole document only when a model is set.
func (service *Service) writeDocument(document plannedDocument, counter tokenizer.Counter) (types.WrittenDocument, error) {
	file, createError := service.createFile(document.path)
	if createError != nil {
		return types.WrittenDocument{}, fmt.Errorf("%w %s: %w", ErrWriteOutput, document.path, createError)
	}
	buffered := bufio.NewWriter(file)
	tally := &tallyWriter{writer: buffered}
	writeError := document.render(tally)
	if writeError == nil {
		writeError = buffered.Flush()
	}
	if closeError := file.Close(); writeError == nil {
		writeError = closeError
	}
	if writeError != nil {
		return types.WrittenDocument{}, fmt.Errorf("%w %s: %w", ErrWriteOutput, document.path, writeError)
	}

	written := types.WrittenDocument{
		Path:            document.path,
		Kind:            document.kind,
		Ordinal:         document.ordinal,
		FileCount:       document.fileCount,
		SizeBytes:       tally.bytes,
		EstimatedTokens: tokenizer.EstimateTokens(tally.characters),
	}
	if counter != nil {
		written.CountedTokens = service.countDocument(counter, document.path)
	}
	return written, nil
}

func (service *Service) countDocument(counter tokenizer.Counter, documentPath string) int {
	content, readError := os.ReadFile(documentPath)
	if readError != nil {
		service.logger.Warn("token counting failed", zap.String("path", documentPath), zap.Error(readError))
		return 0
	}
	tokens, countError := counter.CountString(string(content))
	if countError != nil {
		service.logger.Warn("token counting failed", zap.String("path", documentPath), zap.Error(countError))
		return 0
	}
	return tokens
}

func (service *Service) copyDocument(documentPath string) bool {
	if service.copier == nil {
		return false
	}
	content, readError := os.ReadFile(documentPath)
	if readError != nil {
		service.logger.Warn("clipboard copy failed", zap.String("path", documentPath), zap.Error(readError))
		return false
	}
	if copyError := service.copier.Copy(string(content)); copyError != nil {
		service.logger.Warn("clipboard copy failed", zap.String("path", documentPath), zap.Error(copyError))
		return false
	}
	return true
}

// tallyWriter counts the bytes and characters passing through to writer.
type tallyWriter struct {
	writer     io.Writer
	bytes      int64
	characters int64
}

func (tally *tallyWriter) Write(data []byte) (int, error) {
	written, err := tally.writer.Write(data)
	tally.bytes += int64(written)
	tally.characters += int64(utf8.RuneCount(data[:written]))
	return written, err
}

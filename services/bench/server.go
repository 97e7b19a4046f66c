package bench

import (
	"context"
	"net"
	"time"

	"fortio.org/safecast"
	"github.com/perclft/qbench/backend/backends"
	qb "github.com/perclft/qbench/pkg/bench"
	"github.com/perclft/qbench/pkg/circuit"
	"github.com/perclft/qbench/pkg/qasmfile"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/perclft/qbench/services/cache"
	"github.com/perclft/qbench/services/registry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements BenchServiceServer. Cache and Store are optional.
type Server struct {
	Cache     cache.FeatureCache
	Store     *registry.Store
	Writer    *qasmfile.Writer
	Providers *backends.ProviderRegistry
	// Saved benchmarks are also written here when set
	OutputDir string
}

func NewServer(fc cache.FeatureCache, store *registry.Store, w *qasmfile.Writer, providers *backends.ProviderRegistry) *Server {
	if w == nil {
		w = qasmfile.NewWriter()
	}
	if providers == nil {
		providers = backends.DefaultRegistry("")
	}
	return &Server{Cache: fc, Store: store, Writer: w, Providers: providers}
}

// ------------------------------------------------------------------
// Generate
// ------------------------------------------------------------------

func (s *Server) Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeGenerate(in)
	if err != nil {
		return nil, err
	}
	if req.Level == "" {
		req.Level = qb.LevelAlg
	}
	if req.Level != qb.LevelAlg && req.Level != qb.LevelIndep {
		return nil, status.Errorf(codes.InvalidArgument, "level %q needs an external compiler", req.Level)
	}

	name, err := qb.Filename(qb.FileSpec{
		Benchmark: req.Benchmark,
		NumQubits: req.NumQubits,
		Level:     req.Level,
		Compiler:  req.Compiler,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	c, err := qb.Generate(req.Benchmark, req.NumQubits)
	if err != nil {
		return nil, toStatus(err)
	}
	body, err := c.ToQASM()
	if err != nil {
		return nil, toStatus(err)
	}
	f, cached, err := s.features(ctx, c, cache.Key(body))
	if err != nil {
		return nil, toStatus(err)
	}
	content, err := s.Writer.Render(body, qasmfile.Options{Filename: name})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := GenerateResponse{
		Filename:  name + qasmfile.Extension,
		Content:   content,
		NumQubits: c.NumQubits(),
		Features:  f,
		Cached:    cached,
	}
	if req.Save {
		if s.Store == nil {
			return nil, status.Error(codes.FailedPrecondition, "no registry configured")
		}
		path := resp.Filename
		if s.OutputDir != "" {
			// Save logs its own failures
			opts := qasmfile.Options{Filename: name, Dir: s.OutputDir}
			if s.Writer.Save(body, opts) {
				path = opts.Path()
			}
		}
		rec, err := s.Store.Save(ctx, registry.Record{
			Benchmark: req.Benchmark,
			Level:     req.Level,
			Compiler:  req.Compiler,
			NumQubits: c.NumQubits(),
			Path:      path,
			Features:  f,
			QASM:      content,
		})
		if err != nil {
			return nil, toStatus(err)
		}
		resp.ID = rec.ID
	}

	log.WithFields(log.Fields{
		"benchmark": req.Benchmark,
		"qubits":    req.NumQubits,
		"level":     req.Level,
		"cached":    cached,
	}).Info("generated benchmark")
	return ToStruct(resp)
}

func decodeGenerate(in *structpb.Struct) (GenerateRequest, error) {
	var (
		req GenerateRequest
		err error
	)
	if req.Benchmark, err = stringField(in, "benchmark"); err != nil {
		return req, err
	}
	if req.NumQubits, err = intField(in, "num_qubits"); err != nil {
		return req, err
	}
	if req.Level, err = stringField(in, "level"); err != nil {
		return req, err
	}
	if req.Compiler, err = stringField(in, "compiler"); err != nil {
		return req, err
	}
	if req.Save, err = boolField(in, "save"); err != nil {
		return req, err
	}
	if req.Benchmark == "" {
		return req, status.Error(codes.InvalidArgument, "benchmark required")
	}
	return req, nil
}

// ------------------------------------------------------------------
// Features
// ------------------------------------------------------------------

func (s *Server) Features(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	qasm, err := stringField(in, "qasm")
	if err != nil {
		return nil, err
	}
	if qasm == "" {
		return nil, status.Error(codes.InvalidArgument, "qasm required")
	}
	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid qasm: %v", err)
	}

	key := cache.Key(qasm)
	f, cached, err := s.features(ctx, c, key)
	if err != nil {
		return nil, toStatus(err)
	}
	log.WithFields(log.Fields{
		"key":    key[:16],
		"qubits": c.NumQubits(),
		"cached": cached,
	}).Info("computed features")
	return ToStruct(FeaturesResponse{Key: key, NumQubits: c.NumQubits(), Features: f, Cached: cached})
}

// features consults the cache before computing. Cache failures are logged
// and do not fail the request.
func (s *Server) features(ctx context.Context, c *circuit.Circuit, key string) (supermarq.Features, bool, error) {
	if s.Cache != nil {
		entry, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("feature cache lookup failed")
		} else if ok {
			return entry.Features, true, nil
		}
	}

	f, err := supermarq.Calculate(c)
	if err != nil {
		return supermarq.Features{}, false, err
	}
	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, cache.Entry{Features: f, NumQubits: c.NumQubits()}); err != nil {
			log.WithError(err).Warn("feature cache store failed")
		}
	}
	return f, false, nil
}

// ------------------------------------------------------------------
// ListBenchmarks
// ------------------------------------------------------------------

func (s *Server) ListBenchmarks(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	out := Catalog{
		Levels:    qb.SupportedLevels(),
		Compilers: qb.SupportedCompilers(),
		Devices:   s.Providers.DeviceNames(),
	}
	for _, name := range qb.SupportedBenchmarks() {
		b, err := qb.Lookup(name)
		if err != nil {
			return nil, toStatus(err)
		}
		ns, _ := qb.Namespace(name)
		out.Benchmarks = append(out.Benchmarks, BenchmarkInfo{
			Name:      b.Name,
			Namespace: ns,
			MinQubits: b.MinQubits,
			MaxQubits: b.MaxQubits,
		})
	}
	return ToStruct(out)
}

// ------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------

func toStatus(err error) error {
	switch {
	case errors.Is(err, qb.ErrUnknownBenchmark),
		errors.Is(err, qb.ErrQubitRange),
		errors.Is(err, qb.ErrUnknownLevel),
		errors.Is(err, qb.ErrUnknownCompiler),
		errors.Is(err, supermarq.ErrTooFewQubits),
		errors.Is(err, supermarq.ErrEmptyCircuit):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, registry.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, qasmfile.ErrVersionUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func stringField(in *structpb.Struct, name string) (string, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return sv.StringValue, nil
}

func intField(in *structpb.Struct, name string) (int, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	n, err := safecast.Convert[int](nv.NumberValue)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer: %v", name, err)
	}
	return n, nil
}

func boolField(in *structpb.Struct, name string) (bool, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return false, nil
	}
	bv, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "%s must be a boolean", name)
	}
	return bv.BoolValue, nil
}

// ------------------------------------------------------------------
// Serving
// ------------------------------------------------------------------

// LoggingInterceptor logs every call with its status code and duration.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := log.WithFields(log.Fields{
		"method":   info.FullMethod,
		"code":     status.Code(err).String(),
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("request failed")
	} else {
		entry.Debug("request served")
	}
	return resp, err
}

// Serve runs srv on lis until ctx is done, then stops gracefully.
func Serve(ctx context.Context, lis net.Listener, srv BenchServiceServer) error {
	gs := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor))
	RegisterBenchServiceServer(gs, srv)

	served := make(chan struct{})
	defer close(served)
	go func() {
		select {
		case <-ctx.Done():
			gs.GracefulStop()
		case <-served:
		}
	}()

	log.WithField("addr", lis.Addr().String()).Info("bench service listening")
	if err := gs.Serve(lis); err != nil {
		return errors.Wrap(err, "failed to serve")
	}
	return nil
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region server-struct
// Server serves one session. Calls are serialised so the session sees one
// logical thread.
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	log  *zap.SugaredLogger
}

// NewServer wraps sess. A nil logger discards output.
func NewServer(sess *session.Session, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{sess: sess, log: log}
}
// #endregion server-struct

// #region rpcs
// Toggle flips one query cell.
func (s *Server) Toggle(_ context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.ToggleCell(int(in.GetValue())); err != nil {
		return nil, toStatus(err)
	}
	return encodeSnapshot(s.sess.Snapshot(), "")
}

// Correct trains with the given rank as the asserted class.
func (s *Server) Correct(_ context.Context, in *wrapperspb.Int32Value) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.sess.Correct(int(in.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeSnapshot(s.sess.Snapshot(), res.Decision.Action)
}

// Reset clears the query.
func (s *Server) Reset(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.Reset(); err != nil {
		return nil, toStatus(err)
	}
	return encodeSnapshot(s.sess.Snapshot(), "")
}

// Snapshot returns the current ranking and query without mutating anything.
func (s *Server) Snapshot(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encodeSnapshot(s.sess.Snapshot(), "")
}
// #endregion rpcs

// #region serve
// Serve listens on addr until ctx is cancelled, then stops gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer(grpc.UnaryInterceptor(s.logInterceptor))
	RegisterSessionServer(gs, s)

	errCh := make(chan error, 1)
	go func() { errCh <- gs.Serve(lis) }()
	s.log.Infow("serving", "addr", lis.Addr().String(), "session", s.sess.ID())

	select {
	case <-ctx.Done():
		gs.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		s.log.Warnw("rpc failed", "method", info.FullMethod, "code", status.Code(err).String(), "err", err)
	} else {
		s.log.Debugw("rpc", "method", info.FullMethod, "elapsed", time.Since(start))
	}
	return resp, err
}
// #endregion serve

// #region encoding
func toStatus(err error) error {
	if errors.Is(err, pattern.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func encodeSnapshot(snap session.Snapshot, decision string) (*structpb.Struct, error) {
	ranking := make([]any, len(snap.Ranking))
	for i, r := range snap.Ranking {
		ranking[i] = map[string]any{"label": string(r.Label), "score": r.Score}
	}
	q := make([]any, snap.Query.Len())
	for i, v := range snap.Query {
		q[i] = v
	}
	fields := map[string]any{
		"session": snap.ID,
		"width":   snap.Width,
		"height":  snap.Height,
		"ranking": ranking,
		"query":   q,
	}
	if decision != "" {
		fields["decision"] = decision
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
// #endregion encoding

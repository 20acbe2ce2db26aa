package transport

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// #region types
// RemoteSnapshot is a decoded reply.
type RemoteSnapshot struct {
	SessionID string
	Width     int
	Height    int
	Ranking   []prototype.Ranked
	Query     pattern.Vector
	Decision  string
}
// #endregion types

// #region client-struct
// Client is the remote UI side of the session service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// NewClient connects to addr without transport security.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn uses an existing connection; Close is then a no-op.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close shuts down the owned connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion client-struct

// #region calls
// Toggle flips a query cell remotely.
func (c *Client) Toggle(ctx context.Context, index int) (RemoteSnapshot, error) {
	in, err := int32Arg("index", index)
	if err != nil {
		return RemoteSnapshot{}, err
	}
	return c.call(ctx, "Toggle", in)
}

// Correct asserts the class at rank.
func (c *Client) Correct(ctx context.Context, rank int) (RemoteSnapshot, error) {
	in, err := int32Arg("rank", rank)
	if err != nil {
		return RemoteSnapshot{}, err
	}
	return c.call(ctx, "Correct", in)
}

// Reset clears the remote query.
func (c *Client) Reset(ctx context.Context) (RemoteSnapshot, error) {
	return c.call(ctx, "Reset", &emptypb.Empty{})
}

// Snapshot reads the remote state.
func (c *Client) Snapshot(ctx context.Context) (RemoteSnapshot, error) {
	return c.call(ctx, "Snapshot", &emptypb.Empty{})
}

func (c *Client) call(ctx context.Context, method string, in any) (RemoteSnapshot, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return RemoteSnapshot{}, err
	}
	return decodeSnapshot(out)
}

// int32Arg rejects values the wire type cannot carry instead of wrapping them.
func int32Arg(name string, v int) (*wrapperspb.Int32Value, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil, fmt.Errorf("%s %d out of range: %w", name, v, pattern.ErrInvalidInput)
	}
	return wrapperspb.Int32(int32(v)), nil
}
// #endregion calls

// #region decoding
func decodeSnapshot(s *structpb.Struct) (RemoteSnapshot, error) {
	f := s.GetFields()
	snap := RemoteSnapshot{
		SessionID: f["session"].GetStringValue(),
		Width:     int(f["width"].GetNumberValue()),
		Height:    int(f["height"].GetNumberValue()),
		Decision:  f["decision"].GetStringValue(),
	}
	for i, v := range f["ranking"].GetListValue().GetValues() {
		entry := v.GetStructValue().GetFields()
		label := entry["label"].GetStringValue()
		r, _ := utf8.DecodeRuneInString(label)
		if label == "" {
			return RemoteSnapshot{}, fmt.Errorf("ranking entry %d: missing label", i)
		}
		snap.Ranking = append(snap.Ranking, prototype.Ranked{Label: r, Score: entry["score"].GetNumberValue()})
	}
	for _, v := range f["query"].GetListValue().GetValues() {
		snap.Query = append(snap.Query, v.GetNumberValue())
	}
	return snap, nil
}
// #endregion decoding

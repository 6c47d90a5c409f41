package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/httpapi"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/MKhiriev/go-api-kit/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type fakeVerifier struct {
	identity token.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (token.Identity, error) {
	if f.err != nil {
		return token.Identity{}, f.err
	}
	return f.identity, nil
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "tcp" }
func (fakeAddr) String() string  { return "127.0.0.1:12345" }

func ctxWithBearer(raw string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+raw)
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestAuthUnary_ValidToken(t *testing.T) {
	ic := AuthUnary(&fakeVerifier{identity: token.Identity{Subject: "user-42"}}, nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.Service/List"}

	var gotSubject string
	h := func(ctx context.Context, req any) (any, error) {
		identity, err := httpapi.RequireIdentity(ctx)
		if err != nil {
			return nil, err
		}
		gotSubject = identity.Subject
		return "ok", nil
	}

	resp, err := ic(ctxWithBearer("good-token"), "req", info, h)

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "user-42", gotSubject)
}

func TestAuthUnary_Rejections(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.Service/List"}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler must not run for rejected requests")
		return nil, nil
	}

	tests := []struct {
		name     string
		ctx      context.Context
		verifier *fakeVerifier
	}{
		{
			name:     "no metadata",
			ctx:      context.Background(),
			verifier: &fakeVerifier{},
		},
		{
			name:     "missing authorization metadata",
			ctx:      metadata.NewIncomingContext(context.Background(), metadata.MD{}),
			verifier: &fakeVerifier{},
		},
		{
			name:     "invalid token",
			ctx:      ctxWithBearer("bad-token"),
			verifier: &fakeVerifier{err: apperrors.NewUnauthenticated("token is invalid")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic := AuthUnary(tt.verifier, nil)

			_, err := ic(tt.ctx, "req", info, h)

			require.Error(t, err)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestLoggingUnary_Passthrough(t *testing.T) {
	ic := LoggingUnary(logger.Nop())

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: fakeAddr{}})
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.Service/List"}

	h := func(ctx context.Context, req any) (any, error) { return "ok", nil }
	resp, err := ic(ctx, "req", info, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	wantErr := errors.New("boom")
	hErr := func(ctx context.Context, req any) (any, error) { return nil, wantErr }
	_, err = ic(ctx, "req", info, hErr)
	assert.ErrorIs(t, err, wantErr, "the original error must pass through unchanged")
}

func TestRecoverUnary_CatchesPanic(t *testing.T) {
	ic := RecoverUnary(logger.Nop())
	info := &grpc.UnaryServerInfo{FullMethod: "/orders.Service/Panic"}

	panicH := func(ctx context.Context, req any) (any, error) {
		panic("oh no")
	}

	resp, err := ic(context.Background(), "req", info, panicH)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), "oh no",
		"the panic value must never reach the caller")
}

func TestStatusError_KindMapping(t *testing.T) {
	ctx := logger.Nop().WithContext(context.Background())

	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
	}{
		{name: "nil error", err: nil, wantCode: codes.OK},
		{name: "validation", err: apperrors.NewValidation(apperrors.InvalidField("bad", "/f")), wantCode: codes.InvalidArgument},
		{name: "unauthenticated", err: apperrors.NewUnauthenticated("nope"), wantCode: codes.Unauthenticated},
		{name: "forbidden", err: apperrors.NewForbidden("nope"), wantCode: codes.PermissionDenied},
		{name: "not found", err: apperrors.NewNotFound("order", "7"), wantCode: codes.NotFound},
		{name: "conflict", err: apperrors.NewConflict("duplicate"), wantCode: codes.AlreadyExists},
		{name: "upstream", err: apperrors.NewUpstream("db down", errors.New("dial tcp")), wantCode: codes.Unavailable},
		{name: "unclassified becomes internal", err: errors.New("raw"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusError(ctx, tt.err)
			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestStatusError_InternalNeverLeaksCause(t *testing.T) {
	ctx := logger.Nop().WithContext(context.Background())

	err := StatusError(ctx, errors.New("password=hunter2 leaked"))

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), "hunter2")
}

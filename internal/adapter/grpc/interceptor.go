package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/royaltymarket-backend/internal/auth"
	"github.com/simaogato/royaltymarket-backend/internal/logger"
)

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type claimsKey struct{}

// ContextWithClaims attaches verified claims to ctx
func ContextWithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims attached by AuthInterceptor
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}

// CallerFromContext returns the authenticated caller address
func CallerFromContext(ctx context.Context) (common.Address, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return common.Address{}, status.Error(codes.Unauthenticated, "missing caller identity")
	}
	caller, err := claims.Caller()
	if err != nil {
		return common.Address{}, status.Errorf(codes.Unauthenticated, "invalid caller: %v", err)
	}
	return caller, nil
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the bearer token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the claims attached to the context.
// Methods listed in public skip the check.
func AuthInterceptor(verifier TokenVerifier, public ...string) grpc.UnaryServerInterceptor {
	open := make(map[string]bool, len(public))
	for _, m := range public {
		open[m] = true
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if open[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		claims, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("token rejected", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		if _, err := claims.Caller(); err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token subject: %v", err)
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}

// LoggingInterceptor logs every unary call with its outcome under a fresh request id
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("request_id", uuid.NewString()),
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

package accountrpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/profiledash/internal/common"
	"google.golang.org/grpc/metadata"
)

// WithToken attaches the session token to outgoing call metadata.
// An empty token leaves ctx unchanged.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerPrefix+token)
}

// TokenFromIncoming extracts the bearer token from incoming call metadata.
func TokenFromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	return BearerToken(values[0])
}

// BearerToken strips the "Bearer " scheme from an authorization value.
// Values without the scheme are returned trimmed as they are.
func BearerToken(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= len(common.BearerPrefix) && strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(v[len(common.BearerPrefix):])
	}
	return v
}

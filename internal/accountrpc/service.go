package accountrpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "profiledash.account.v1.AccountService"

// Full method names, as seen by interceptors.
const (
	MethodAuthenticate  = "/" + ServiceName + "/Authenticate"
	MethodEndSession    = "/" + ServiceName + "/EndSession"
	MethodFetchProfile  = "/" + ServiceName + "/FetchProfile"
	MethodUpdateProfile = "/" + ServiceName + "/UpdateProfile"
)

// Server is the server-side API of the account service.
type Server interface {
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error)
	FetchProfile(context.Context, *FetchProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authenticate", Handler: unary(MethodAuthenticate, Server.Authenticate)},
		{MethodName: "EndSession", Handler: unary(MethodEndSession, Server.EndSession)},
		{MethodName: "FetchProfile", Handler: unary(MethodFetchProfile, Server.FetchProfile)},
		{MethodName: "UpdateProfile", Handler: unary(MethodUpdateProfile, Server.UpdateProfile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accountrpc/service.go",
}

// RegisterServer registers srv on r.
func RegisterServer(r grpc.ServiceRegistrar, srv Server) {
	r.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](fullMethod string, call func(Server, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(Server), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is the client stub of the account service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	return invoke[AuthenticateRequest, AuthenticateResponse](ctx, c.cc, MethodAuthenticate, in, opts)
}

func (c *Client) EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	return invoke[EndSessionRequest, EndSessionResponse](ctx, c.cc, MethodEndSession, in, opts)
}

func (c *Client) FetchProfile(ctx context.Context, in *FetchProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[FetchProfileRequest, ProfileResponse](ctx, c.cc, MethodFetchProfile, in, opts)
}

func (c *Client) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[UpdateProfileRequest, ProfileResponse](ctx, c.cc, MethodUpdateProfile, in, opts)
}

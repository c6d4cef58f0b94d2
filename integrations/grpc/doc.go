// Package grpc provides gRPC server interceptors for SWT authentication.
//
// Clients send the token in the "authorization" metadata entry as
// "Bearer <base64 of the wire token>", the same form the HTTP middleware
// accepts. Validated claims are stored in the handler's context.
//
// # Basic Usage
//
//	reg, err := keys.LoadFile("audiences.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	swtValidator, err := validator.New(
//	    validator.WithKeyResolver(reg),
//	    validator.WithAudience("https://api.example.com/"),
//	    validator.WithIssuerNameRegistry(validator.TrustedIssuers{
//	        "https://sts.example.com/": "sts",
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	interceptor, err := swtgrpc.New(
//	    swtgrpc.WithValidator(swtValidator),
//	    swtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// # Accessing Claims
//
//	func (s *server) GetProfile(ctx context.Context, req *pb.Request) (*pb.Profile, error) {
//	    claims, err := swtgrpc.GetClaims[*validator.ValidatedClaims](ctx)
//	    if err != nil {
//	        return nil, status.Error(codes.Internal, "failed to get claims")
//	    }
//	    return &pb.Profile{Name: claims.Name()}, nil
//	}
//
// # Error Mapping
//
// DefaultErrorHandler maps failures to status codes:
//
//   - missing token, rejected token: Unauthenticated
//   - malformed metadata or token: InvalidArgument
//   - audience or issuer mismatch: PermissionDenied
//   - configuration problems: Internal
package grpc

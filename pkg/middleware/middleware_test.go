package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
	"github.com/wyfcoding/optionstracker/pkg/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinLoggingMiddleware_PropagatesTrace(t *testing.T) {
	r := gin.New()
	r.Use(GinLoggingMiddleware())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceHeader, "trace-abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc", seen)
	assert.Equal(t, "trace-abc", rec.Header().Get(TraceHeader))
}

func TestGinRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(GinRecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGinCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(GinCORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.New("mw")
	r := gin.New()
	r.Use(GinMetricsMiddleware(m))
	r.GET("/contracts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contracts/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/contracts/:id", "200")))
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ ratelimit.Limit) (*ratelimit.Result, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	return &ratelimit.Result{Allowed: s.allowed, RetryAfter: 1500 * time.Millisecond}, nil
}

func TestGinRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(GinRateLimitMiddleware(ratelimit.NewLocalRateLimiter(), ratelimit.PerSecond(1, 1)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestGinRateLimitMiddleware_Stub(t *testing.T) {
	denied := &stubLimiter{allowed: false}
	r := gin.New()
	r.Use(GinRateLimitMiddleware(denied, ratelimit.PerSecond(10, 0)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	require.Len(t, denied.keys, 1)
	assert.Contains(t, denied.keys[0], "http:")

	// 限流器故障时放行
	broken := &stubLimiter{err: errors.New("redis down")}
	r = gin.New()
	r.Use(GinRateLimitMiddleware(broken, ratelimit.PerSecond(10, 0)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGinRateLimitMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(GinRateLimitMiddleware(nil, ratelimit.Limit{}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestGRPCRecoveryInterceptor(t *testing.T) {
	interceptor := GRPCRecoveryInterceptor()
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Boom"},
		func(ctx context.Context, req any) (any, error) { panic("boom") })

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestGRPCLoggingInterceptor_TraceFromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-trace-id", "trace-md"))
	var seen string
	_, err := GRPCLoggingInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Ok"},
		func(ctx context.Context, req any) (any, error) {
			seen = logger.TraceID(ctx)
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "trace-md", seen)
}

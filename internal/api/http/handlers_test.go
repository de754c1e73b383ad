package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"urlshortener/internal/database"
	"urlshortener/internal/models"
	"urlshortener/internal/service"
)

const testBaseURL = "http://127.0.0.1:8000"

type MockURLService struct {
	mock.Mock
}

func (s *MockURLService) ShortenURL(ctx context.Context, fullURL string) (*models.URL, error) {
	args := s.Called(ctx, fullURL)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (s *MockURLService) ResolveShortID(ctx context.Context, shortID string) (*models.URL, error) {
	args := s.Called(ctx, shortID)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (s *MockURLService) GetURLStats(ctx context.Context, shortID string) (*models.URL, error) {
	args := s.Called(ctx, shortID)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

type HandlersTestSuite struct {
	suite.Suite
	errUnknown error
	logger     *httplog.Logger
	urlSvcMock *MockURLService
	server     *httptest.Server
	e          *httpexpect.Expect
}

func (suite *HandlersTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *HandlersTestSuite) SetupSubTest() {
	suite.urlSvcMock = new(MockURLService)
	router := NewRouter(suite.logger, suite.urlSvcMock, testBaseURL)
	suite.server = httptest.NewServer(router)
	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *HandlersTestSuite) TearDownSubTest() {
	suite.urlSvcMock.AssertExpectations(suite.T())
	suite.server.Close()
}

func (suite *HandlersTestSuite) TestHealth() {
	suite.Run("success", func() {
		suite.e.GET("/health").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", "healthy")
	})
}

func (suite *HandlersTestSuite) TestShortenURL() {
	const path = "/shorten"

	suite.Run("empty request body", func() {
		suite.e.POST(path).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			ContainsKey("detail")
	})

	suite.Run("invalid request body", func() {
		suite.e.POST(path).
			WithHeader("Content-Type", "application/json").
			WithBytes([]byte(`{bad`)).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			ContainsKey("detail")
	})

	suite.Run("malformed url", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{"url": "not-a-url"}).
			Expect().
			Status(http.StatusUnprocessableEntity).
			JSON().Object().
			ContainsKey("detail")
	})

	// mailto URLs pass the struct-level url check but carry no host, so
	// the service's absolute-URL validation rejects them.
	suite.Run("invalid url rejected by service", func() {
		suite.urlSvcMock.
			On("ShortenURL", mock.Anything, "mailto:user@example.com").
			Once().
			Return(nil, service.ErrInvalidURL)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "mailto:user@example.com"}).
			Expect().
			Status(http.StatusUnprocessableEntity).
			JSON().Object().
			ContainsKey("detail")
	})

	suite.Run("unknown error", func() {
		suite.urlSvcMock.
			On("ShortenURL", mock.Anything, "https://example.com/a/b").
			Once().
			Return(nil, suite.errUnknown)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com/a/b"}).
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("detail", "Internal Server Error")
	})

	suite.Run("success", func() {
		suite.urlSvcMock.
			On("ShortenURL", mock.Anything, "https://example.com/a/b").
			Once().
			Return(&models.URL{
				ShortID: "AbC123",
				FullURL: "https://example.com/a/b",
			}, nil)

		suite.e.POST(path).
			WithJSON(map[string]string{"url": "https://example.com/a/b"}).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("short_url", testBaseURL+"/AbC123")
	})
}

func (suite *HandlersTestSuite) TestRedirect() {
	suite.Run("url not found", func() {
		suite.urlSvcMock.
			On("ResolveShortID", mock.Anything, "unknown99").
			Once().
			Return(nil, database.ErrURLNotFound)

		suite.e.GET("/unknown99").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("detail", "Short URL 'unknown99' not found")
	})

	suite.Run("unknown error", func() {
		suite.urlSvcMock.
			On("ResolveShortID", mock.Anything, "AbC123").
			Once().
			Return(nil, suite.errUnknown)

		suite.e.GET("/AbC123").
			Expect().
			Status(http.StatusInternalServerError).
			JSON().Object().
			HasValue("detail", "Internal Server Error")
	})

	suite.Run("success", func() {
		suite.urlSvcMock.
			On("ResolveShortID", mock.Anything, "AbC123").
			Once().
			Return(&models.URL{
				ShortID: "AbC123",
				FullURL: "https://example.com/a/b",
				Clicks:  1,
			}, nil)

		suite.e.GET("/AbC123").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusTemporaryRedirect).
			Header("Location").IsEqual("https://example.com/a/b")
	})
}

func (suite *HandlersTestSuite) TestGetURLStats() {
	suite.Run("url not found", func() {
		suite.urlSvcMock.
			On("GetURLStats", mock.Anything, "unknown99").
			Once().
			Return(nil, database.ErrURLNotFound)

		suite.e.GET("/stats/unknown99").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("detail", "Short URL 'unknown99' not found")
	})

	suite.Run("success", func() {
		suite.urlSvcMock.
			On("GetURLStats", mock.Anything, "AbC123").
			Once().
			Return(&models.URL{
				ShortID: "AbC123",
				FullURL: "https://example.com/a/b",
				Clicks:  1,
			}, nil)

		suite.e.GET("/stats/AbC123").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("short_id", "AbC123").
			HasValue("full_url", "https://example.com/a/b").
			HasValue("clicks", 1).
			HasValue("short_url", testBaseURL+"/AbC123")
	})
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"readlater/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_SavedEvent() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-saved",
		RoutingKey: "test-routing-key-saved",
		QueueName:  "test-queue-saved",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	article := &domain.Article{
		ID:      "article-1",
		OwnerID: "owner-1",
		URL:     "https://example.com/post",
		Title:   "Test Article",
		Domain:  "example.com",
		SavedAt: time.Now().UTC(),
	}

	err = pub.Publish(s.ctx, "article.saved", article)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received ArticleEvent
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal("article.saved", received.Action)
	s.Equal("article-1", received.ArticleID)
	s.Equal("owner-1", received.OwnerID)
	s.Equal("https://example.com/post", received.URL)
	s.Equal("example.com", received.Domain)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_DeletedEvent() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-deleted",
		RoutingKey: "test-routing-key-deleted",
		QueueName:  "test-queue-deleted",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	article := &domain.Article{
		ID:      "article-2",
		OwnerID: "owner-1",
		URL:     "https://example.com/gone",
		Title:   "Removed Article",
		Domain:  "example.com",
	}

	err = pub.Publish(s.ctx, "article.deleted", article)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)

	var received ArticleEvent
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal("article.deleted", received.Action)
	s.Equal("article-2", received.ArticleID)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}

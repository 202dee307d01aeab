package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"agri-registry-api/config"
	"agri-registry-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

type (
	Consumer struct {
		cfg        config.MQ
		log        *zap.Logger
		out        io.Writer
		conn       *amqp091.Connection
		chConsume  *amqp091.Channel
		chDelivery <-chan amqp091.Delivery
	}
	eventHeader struct {
		ID       string `json:"event_id"`
		Action   string `json:"event_action"`
		FarmerID string `json:"farmer_id"`
	}
)

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		out:  os.Stdout,
		conn: conn,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.RoutingKeys {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var e eventHeader
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode event %q: %w", msg.MessageId, err)
	}

	action := e.Action
	if action == "" {
		action = msg.RoutingKey
	}

	_, err := fmt.Fprintf(c.out,
		"Action=%s FarmerID=%s EventID=%s\n",
		action,
		e.FarmerID,
		e.ID,
	)

	return err
}

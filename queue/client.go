// Package queue 通过 AMQP 投递和消费交易通知消息。
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// publishTimeout 单条消息投递超时
const publishTimeout = 5 * time.Second

// ErrChannelClosed 消费通道被服务端关闭
var ErrChannelClosed = errors.New("消息通道已关闭")

// Client AMQP 客户端，声明 direct 交换机并以队列名作为路由键
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewClient 连接并声明交换机和队列
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接 AMQP 失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开通道失败: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("声明交换机和队列失败: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	return c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
}

// PublishNotification 投递交易通知，消息持久化
func (c *Client) PublishNotification(ctx context.Context, msg *NotificationMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("投递消息失败: %w", err)
	}

	slog.InfoContext(ctx, "已投递交易通知",
		"transaction_id", msg.Transaction.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// Handler 处理一条通知，返回错误时消息重新入队
type Handler func(ctx context.Context, msg *NotificationMessage) error

// Consume 手动确认模式消费，ctx 取消后返回
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	deliveries, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	slog.InfoContext(ctx, "开始消费交易通知", "queue", c.queueName)
	return consumeLoop(ctx, deliveries, handler)
}

// acknowledger 抽象 amqp091.Delivery 的确认操作
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery struct {
	body []byte
	ack  acknowledger
}

func consumeLoop(ctx context.Context, deliveries <-chan amqp091.Delivery, handler Handler) error {
	in := make(chan delivery)
	go func() {
		defer close(in)
		for d := range deliveries {
			d := d
			select {
			case in <- delivery{body: d.Body, ack: &d}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return process(ctx, in, handler)
}

// process 格式错误的消息直接丢弃，处理失败的消息重新入队
func process(ctx context.Context, in <-chan delivery, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "停止消费", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-in:
			if !ok {
				return ErrChannelClosed
			}

			msg, err := NotificationMessageFromJSON(d.body)
			if err != nil {
				slog.ErrorContext(ctx, "消息解析失败，丢弃", "error", err)
				_ = d.ack.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "处理交易通知失败，重新入队",
					"error", err,
					"transaction_id", msg.Transaction.ID)
				_ = d.ack.Nack(false, true)
				continue
			}

			_ = d.ack.Ack(false)
			slog.InfoContext(ctx, "交易通知已处理", "transaction_id", msg.Transaction.ID)
		}
	}
}

// Close 关闭通道和连接
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

package worker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-scheduler-api/pkg/config"
)

// ValidationRequest is the envelope published by the admin frontend
// when a dataset file is uploaded.
type ValidationRequest struct {
	Pattern string                `json:"pattern"`
	Data    ValidationRequestData `json:"data"`
}

type ValidationRequestData struct {
	TaskID   string `json:"taskId"`
	FileData string `json:"fileData"`
	Category string `json:"category"`
	AdminID  string `json:"adminId"`
	CampusID string `json:"campusId"`
}

// ValidationResult is published back on the response queue.
type ValidationResult struct {
	TaskID string   `json:"taskId"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// CSVWorker consumes dataset validation requests from RabbitMQ and
// publishes per-file results.
type CSVWorker struct {
	cfg    config.BrokerConfig
	logger *zap.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewCSVWorker(cfg config.BrokerConfig, logger *zap.Logger) *CSVWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVWorker{cfg: cfg, logger: logger}
}

// Connect dials the broker and declares both queues as durable.
func (w *CSVWorker) Connect() error {
	conn, err := amqp.Dial(w.cfg.URL)
	if err != nil {
		return err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := channel.Qos(w.cfg.Prefetch, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return err
	}
	for _, queue := range []string{w.cfg.RequestQueue, w.cfg.ResponseQueue} {
		if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return err
		}
	}
	w.conn = conn
	w.channel = channel
	return nil
}

// Run consumes until the context is cancelled or the channel closes.
func (w *CSVWorker) Run(ctx context.Context) error {
	deliveries, err := w.channel.Consume(w.cfg.RequestQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	w.logger.Info("csv worker consuming",
		zap.String("queue", w.cfg.RequestQueue),
		zap.Int("prefetch", w.cfg.Prefetch))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			w.handle(ctx, delivery)
		}
	}
}

func (w *CSVWorker) handle(ctx context.Context, delivery amqp.Delivery) {
	var req ValidationRequest
	if err := json.Unmarshal(delivery.Body, &req); err != nil {
		w.logger.Warn("dropping malformed validation request", zap.Error(err))
		_ = delivery.Nack(false, false)
		return
	}

	result := w.validate(req.Data)
	if err := w.publish(ctx, result); err != nil {
		w.logger.Error("failed to publish validation result",
			zap.String("task_id", result.TaskID),
			zap.Error(err))
		_ = delivery.Nack(false, true)
		return
	}

	w.logger.Info("validated dataset file",
		zap.String("task_id", result.TaskID),
		zap.String("category", req.Data.Category),
		zap.Bool("valid", result.Valid),
		zap.Int("errors", len(result.Errors)))
	_ = delivery.Ack(false)
}

func (w *CSVWorker) validate(data ValidationRequestData) ValidationResult {
	result := ValidationResult{TaskID: data.TaskID, Errors: []string{}}

	raw, err := base64.StdEncoding.DecodeString(data.FileData)
	if err != nil {
		result.Errors = append(result.Errors, "fileData is not valid base64")
		return result
	}

	result.Errors = append(result.Errors, ValidateCSV(data.Category, raw)...)
	result.Valid = len(result.Errors) == 0
	return result
}

func (w *CSVWorker) publish(ctx context.Context, result ValidationResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}
	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return w.channel.PublishWithContext(publishCtx, "", w.cfg.ResponseQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Close tears down the channel and connection.
func (w *CSVWorker) Close() {
	if w.channel != nil {
		_ = w.channel.Close()
	}
	if w.conn != nil {
		_ = w.conn.Close()
	}
}

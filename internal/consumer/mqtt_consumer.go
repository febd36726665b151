package consumer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	mqttcommon "aquasense-design/common/mqtt"
	"aquasense-design/internal/config"
	"aquasense-design/internal/models"
	"aquasense-design/internal/service"
)

// Subscriber MQTT 订阅（由 mqttcommon.Client 实现）
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqttcommon.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// MQTTConsumer 进水遥测消费者
// 主题格式: aquasense/{site}/influent，payload 与 HTTP 请求体相同
type MQTTConsumer struct {
	config    *config.MQTTConfig
	client    Subscriber
	predictor DesignPredictor
	logger    *zap.Logger
}

// NewMQTTConsumer 创建MQTT消费者
func NewMQTTConsumer(cfg *config.MQTTConfig, client Subscriber, predictor DesignPredictor, logger *zap.Logger) *MQTTConsumer {
	return &MQTTConsumer{
		config:    cfg,
		client:    client,
		predictor: predictor,
		logger:    logger,
	}
}

// Start 订阅后阻塞直到 ctx 取消
func (c *MQTTConsumer) Start(ctx context.Context) error {
	handler := func(topic string, payload []byte) error {
		return c.handleMessage(ctx, topic, payload)
	}
	if err := c.client.Subscribe(c.config.Topic, c.config.QoS, handler); err != nil {
		return fmt.Errorf("failed to subscribe to influent topic: %w", err)
	}

	c.logger.Info("MQTT consumer started", zap.String("topic", c.config.Topic))

	<-ctx.Done()
	return nil
}

// Stop 取消订阅
func (c *MQTTConsumer) Stop(ctx context.Context) error {
	if err := c.client.Unsubscribe(c.config.Topic); err != nil {
		c.logger.Error("Failed to unsubscribe", zap.Error(err))
	}
	c.logger.Info("MQTT consumer stopped")
	return nil
}

// siteFromTopic aquasense/{site}/influent → site
func siteFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] == "" {
		return "", fmt.Errorf("invalid topic format: %s", topic)
	}
	return parts[1], nil
}

// handleMessage 解析进水样本并推理；结果由 DesignService 发布到结果流
func (c *MQTTConsumer) handleMessage(ctx context.Context, topic string, payload []byte) error {
	c.logger.Debug("Received MQTT message",
		zap.String("topic", topic),
		zap.Int("payload_size", len(payload)),
	)

	site, err := siteFromTopic(topic)
	if err != nil {
		return err
	}

	sample, err := models.ParseInfluentRequest(payload)
	if err != nil {
		c.logger.Warn("Rejected influent sample",
			zap.String("site", site),
			zap.Error(err),
		)
		return err
	}

	result, err := c.predictor.Predict(ctx, sample, service.SourceMQTT, site)
	if err != nil {
		return fmt.Errorf("failed to predict design for site %s: %w", site, err)
	}

	c.logger.Debug("Influent sample processed",
		zap.String("site", site),
		zap.String("request_id", result.RequestID),
		zap.Int("predicted_type", result.Response.PredictedType),
	)
	return nil
}

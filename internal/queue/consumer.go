package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer consumes delivery events from RabbitMQ
type Consumer struct {
	conn      *Connection
	queueName string
	handler   DeliveryHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// DeliveryHandler processes one delivery event. A non-nil error requeues it.
type DeliveryHandler func(event *DeliveryEvent) error

// NewConsumer declares the queue and returns a consumer
func NewConsumer(conn *Connection, queueName string, handler DeliveryHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Same settings as the publisher so either side may declare first
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start begins consuming delivery events
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	// One event at a time keeps the audit log writer simple
	err = ch.Qos(1, 0, false)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				log.Println("Consumer stopping...")
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("Delivery channel closed")
					return
				}

				if err := c.processEvent(d); err != nil {
					log.Printf("Error processing delivery event: %v", err)
					d.Nack(false, true)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	log.Printf("Consumer started, listening on queue: %s", c.queueName)
	return nil
}

// Stop stops consuming gracefully
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan
	log.Println("Consumer stopped")
	return nil
}

// processEvent decodes and hands off a single delivery event
func (c *Consumer) processEvent(d amqp.Delivery) error {
	var event DeliveryEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal delivery event: %w", err)
	}

	if err := c.handler(&event); err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return nil
}

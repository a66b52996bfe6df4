package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNotificationQueues(t *testing.T) {
	tests := []struct {
		name      string
		queueName string
	}{
		{
			name:      "имя очереди из конфигурации попадает в декларацию",
			queueName: "entitlement.changed",
		},
		{
			name:      "нестандартное имя очереди не подменяется",
			queueName: "custom_notifications",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queues := GetNotificationQueues(tt.queueName)

			assert.Len(t, queues, 1)
			assert.Equal(t, tt.queueName, queues[0].QueueName)
			assert.Equal(t, "entitlement", queues[0].RoutingKey)
		})
	}
}

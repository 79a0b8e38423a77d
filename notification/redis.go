package notification

import (
	"encoding/json"
	"fadebot/model"
	"fadebot/utils"
	"github.com/go-redis/redis"
	"time"
)

const DefaultRedisChannel = "fadebot:opportunities"

type publisher interface {
	Publish(channel string, message interface{}) *redis.IntCmd
}

// Event is the message published for every notification.
type Event struct {
	Type        string             `json:"type"`
	Message     string             `json:"message,omitempty"`
	Opportunity *model.Opportunity `json:"opportunity,omitempty"`
	Time        time.Time          `json:"time"`
}

// Redis publishes events as JSON on one pub/sub channel.
type Redis struct {
	client  publisher
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return newRedis(client, channel)
}

func newRedis(client publisher, channel string) *Redis {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Notify(text string) {
	r.publish(Event{Type: "message", Message: text})
}

func (r *Redis) OnOpportunity(opportunity model.Opportunity) {
	r.publish(Event{Type: "opportunity", Opportunity: &opportunity})
}

func (r *Redis) OnError(err error) {
	r.publish(Event{Type: "error", Message: err.Error()})
}

func (r *Redis) publish(event Event) {
	event.Time = time.Now().UTC()
	payload, err := json.Marshal(event)
	if err != nil {
		utils.Log.Errorf("[Notification] encode %s event: %v", event.Type, err)
		return
	}
	if err := r.client.Publish(r.channel, payload).Err(); err != nil {
		utils.Log.Errorf("[Notification] publish to %s: %v", r.channel, err)
	}
}

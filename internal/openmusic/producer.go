package openmusic

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const exportQueue = "export:playlists"

type ExportJob struct {
	PlaylistID  string `json:"playlistId"`
	TargetEmail string `json:"targetEmail"`
}

// JobProducer submits background work. The transport behind it is a black
// box to the rest of the service.
type JobProducer interface {
	EnqueuePlaylistExport(ctx context.Context, job ExportJob) error
}

type RedisProducer struct {
	rdb   *redis.Client
	queue string
}

func NewRedisProducer(rdb *redis.Client) *RedisProducer {
	return &RedisProducer{rdb: rdb, queue: exportQueue}
}

func (p *RedisProducer) EnqueuePlaylistExport(ctx context.Context, job ExportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.rdb.RPush(ctx, p.queue, data).Err()
}

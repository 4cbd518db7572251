package services

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"flowy/app/models"
)

const (
	fieldText      = "text"
	fieldChecked   = "checked"
	fieldPinned    = "pinned"
	fieldCollapsed = "collapsed"

	childrenSuffix = "_children"
)

// RedisTaskService stores each task under two keys: a hash at <prefix><id>
// holding the scalar fields and a list at <prefix><id>_children holding the
// child ids in order.
type RedisTaskService struct {
	client *redis.Client
	prefix string
}

// NewRedisTaskService creates a new instance of RedisTaskService.
func NewRedisTaskService(client *redis.Client, keyPrefix string) *RedisTaskService {
	return &RedisTaskService{client: client, prefix: keyPrefix}
}

func (s *RedisTaskService) taskKey(id string) string {
	return s.prefix + id
}

func (s *RedisTaskService) childrenKey(id string) string {
	return s.prefix + id + childrenSuffix
}

// encodeBool returns the literal string form stored in hash fields.
func encodeBool(b bool) string {
	return strconv.FormatBool(b)
}

// decodeBool treats anything other than the exact string "true" as false.
func decodeBool(s string) bool {
	return s == "true"
}

// SetTask overwrites the hash fields and replaces the children list. Both
// keys are written in one MULTI/EXEC so readers never see half a task.
func (s *RedisTaskService) SetTask(ctx context.Context, task *models.Task) error {
	key := s.taskKey(task.ID)
	childrenKey := s.childrenKey(task.ID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldText, task.Text,
			fieldChecked, encodeBool(task.Checked),
			fieldPinned, encodeBool(task.Pinned),
			fieldCollapsed, encodeBool(task.Collapsed),
		)
		pipe.Del(ctx, childrenKey)
		if len(task.Children) > 0 {
			children := make([]any, len(task.Children))
			for i, c := range task.Children {
				children[i] = c
			}
			pipe.RPush(ctx, childrenKey, children...)
		}
		return nil
	})
	if err != nil {
		return storeErr("set", key, err)
	}
	return nil
}

// GetTask reads the hash and the full children list in one transaction.
func (s *RedisTaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	key := s.taskKey(id)

	var (
		fields   *redis.MapStringStringCmd
		children *redis.StringSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, key)
		children = pipe.LRange(ctx, s.childrenKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return nil, storeErr("get", key, err)
	}

	hash := fields.Val()
	if len(hash) == 0 {
		return nil, ErrNotFound
	}

	task := &models.Task{
		ID:        id,
		Text:      hash[fieldText],
		Checked:   decodeBool(hash[fieldChecked]),
		Pinned:    decodeBool(hash[fieldPinned]),
		Collapsed: decodeBool(hash[fieldCollapsed]),
		Children:  children.Val(),
	}
	task.Normalize()
	return task, nil
}

// DeleteTask removes the task hash. The children list is left in place;
// deleting a missing key is not an error.
func (s *RedisTaskService) DeleteTask(ctx context.Context, id string) error {
	key := s.taskKey(id)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}

func (s *RedisTaskService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storeErr("ping", "", err)
	}
	return nil
}

func (s *RedisTaskService) Close(context.Context) error {
	return s.client.Close()
}

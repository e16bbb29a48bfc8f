package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks"
)

const maxTxRetries = 5

var _ TaskStore = (*RedisTaskStore)(nil)

// RedisTaskStore keeps the task list in a Redis hash keyed by id. It is an
// opt-in backend (STORE_BACKEND=redis) that preserves the memory store's
// semantics: id assignment reads the current size inside a WATCH/MULTI
// transaction, so concurrent creates retry instead of colliding.
type RedisTaskStore struct {
	client  *redis.Client
	keyName string
}

func NewRedisTaskStore(url, keyName string) (*RedisTaskStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTaskStore{
		client:  client,
		keyName: keyName,
	}, nil
}

// Add assigns id = size+1 (skipping ids still held after deletions) and
// inserts the task. The size read and the insert run under WATCH so a
// concurrent create invalidates the transaction rather than reusing the id.
func (s *RedisTaskStore) Add(ctx context.Context, title, description string, done bool) (*tasks.Task, error) {
	var created tasks.Task

	txn := func(tx *redis.Tx) error {
		size, err := tx.HLen(ctx, s.keyName).Result()
		if err != nil {
			return fmt.Errorf("failed to read store size: %w", err)
		}

		id := int(size) + 1
		for {
			exists, err := tx.HExists(ctx, s.keyName, strconv.Itoa(id)).Result()
			if err != nil {
				return fmt.Errorf("failed to probe task id: %w", err)
			}
			if !exists {
				break
			}
			id++
		}

		created = tasks.Task{
			ID:          id,
			Title:       title,
			Description: description,
			Done:        done,
		}

		data, err := json.Marshal(created)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.keyName, strconv.Itoa(id), data)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, s.keyName)
		if err == nil {
			return &created, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to add task after %d transaction retries", maxTxRetries)
}

func (s *RedisTaskStore) Get(ctx context.Context, id int) (*tasks.Task, error) {
	data, err := s.client.HGet(ctx, s.keyName, strconv.Itoa(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task tasks.Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}

// Update reads, patches, and rewrites the task under WATCH so concurrent
// updates to the same record cannot lose fields.
func (s *RedisTaskStore) Update(ctx context.Context, id int, patch tasks.TaskPatch) error {
	txn := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, s.keyName, strconv.Itoa(id)).Result()
		if err == redis.Nil {
			return fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		var task tasks.Task
		if err := json.Unmarshal([]byte(data), &task); err != nil {
			return fmt.Errorf("failed to unmarshal task: %w", err)
		}

		patch.Apply(&task)

		updated, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.keyName, strconv.Itoa(id), updated)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, s.keyName)
		if err != redis.TxFailedErr {
			return err
		}
	}

	return fmt.Errorf("failed to update task after %d transaction retries", maxTxRetries)
}

func (s *RedisTaskStore) Delete(ctx context.Context, id int) error {
	removed, err := s.client.HDel(ctx, s.keyName, strconv.Itoa(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("task with ID %d: %w", id, ErrTaskNotFound)
	}
	return nil
}

func (s *RedisTaskStore) Count(ctx context.Context) (int, error) {
	size, err := s.client.HLen(ctx, s.keyName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(size), nil
}

func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}

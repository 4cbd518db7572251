package services

import (
	"fmt"

	"flowy/app/config"
)

// Open connects the backend selected by cfg.Backend.
func Open(cfg *config.Config) (TaskStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := config.InitRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisTaskService(client, cfg.Redis.KeyPrefix), nil
	case config.BackendNeo4j:
		driver, err := config.InitNeo4j(cfg.Neo4j)
		if err != nil {
			return nil, fmt.Errorf("neo4j driver: %w", err)
		}
		return NewNeo4jTaskService(driver, cfg.Neo4j.Database), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

package services

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"flowy/app/models"
)

// Neo4jTaskService keeps each task as a single (:Task) node. Children are an
// ordered list property, so a write replaces the whole task atomically.
type Neo4jTaskService struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jTaskService creates a new instance of Neo4jTaskService.
func NewNeo4jTaskService(driver neo4j.DriverWithContext, database string) *Neo4jTaskService {
	return &Neo4jTaskService{driver: driver, database: database}
}

func (s *Neo4jTaskService) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// SetTask creates the task or overwrites every field of an existing one.
func (s *Neo4jTaskService) SetTask(ctx context.Context, task *models.Task) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	children := task.Children
	if children == nil {
		children = []string{}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MERGE (t:Task {id: $id}) "+
				"SET t.text = $text, t.checked = $checked, t.pinned = $pinned, "+
				"t.collapsed = $collapsed, t.children = $children",
			map[string]any{
				"id":        task.ID,
				"text":      task.Text,
				"checked":   task.Checked,
				"pinned":    task.Pinned,
				"collapsed": task.Collapsed,
				"children":  children,
			},
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return storeErr("set", task.ID, err)
	}
	return nil
}

// GetTask retrieves a single task by its ID.
func (s *Neo4jTaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"RETURN t.text AS text, t.checked AS checked, t.pinned AS pinned, "+
				"t.collapsed AS collapsed, t.children AS children",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return taskFromRecord(id, res.Record())
	})
	if err != nil {
		return nil, storeErr("get", id, err)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result.(*models.Task), nil
}

// DeleteTask deletes a task node and its relationships.
func (s *Neo4jTaskService) DeleteTask(ctx context.Context, id string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) DETACH DELETE t",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return storeErr("delete", id, err)
	}
	return nil
}

func (s *Neo4jTaskService) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return storeErr("ping", "", err)
	}
	return nil
}

func (s *Neo4jTaskService) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// taskFromRecord converts a row of text, checked, pinned, collapsed, children.
// Missing properties read back as zero values.
func taskFromRecord(id string, record *neo4j.Record) (*models.Task, error) {
	task := &models.Task{ID: id}

	if v, ok := record.Get("text"); ok && v != nil {
		text, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("text: unexpected type %T", v)
		}
		task.Text = text
	}
	for key, dst := range map[string]*bool{
		"checked":   &task.Checked,
		"pinned":    &task.Pinned,
		"collapsed": &task.Collapsed,
	} {
		b, err := boolValue(record, key)
		if err != nil {
			return nil, err
		}
		*dst = b
	}

	if v, ok := record.Get("children"); ok && v != nil {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("children: unexpected type %T", v)
		}
		for _, item := range items {
			child, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("children: unexpected element type %T", item)
			}
			task.Children = append(task.Children, child)
		}
	}

	task.Normalize()
	return task, nil
}

func boolValue(record *neo4j.Record, key string) (bool, error) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected type %T", key, v)
	}
	return b, nil
}

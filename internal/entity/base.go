package entity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type Array[T any] []T

func (a *Array[T]) Scan(obj any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), a)
	case []byte:
		return json.Unmarshal(t, a)
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func (a Array[T]) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}

	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(&GuildSettings{})
}

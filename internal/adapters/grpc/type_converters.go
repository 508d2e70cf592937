package grpc

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/colony-go/internal/application/colony"
)

func statusToStruct(s colony.Status) (*structpb.Struct, error) {
	ops := make([]interface{}, 0, len(s.Operations))
	for _, op := range s.Operations {
		missions := make([]interface{}, 0, len(op.Missions))
		for _, m := range op.Missions {
			missions = append(missions, m)
		}
		ops = append(ops, map[string]interface{}{
			"name":     op.Name,
			"room":     op.Room,
			"status":   op.Status,
			"missions": missions,
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"started_at":  s.StartedAt.UTC().Format(time.RFC3339),
		"last_tick":   s.LastTick,
		"ticks_run":   s.TicksRun,
		"faults":      s.Faults,
		"last_faults": s.LastFaults,
		"deactivated": s.Deactivated,
		"operations":  ops,
	})
}

// structToStatus decodes a status; numbers travel as float64
func structToStatus(st *structpb.Struct) colony.Status {
	m := st.AsMap()
	s := colony.Status{
		LastTick:    uint64(number(m["last_tick"])),
		TicksRun:    int(number(m["ticks_run"])),
		Faults:      int(number(m["faults"])),
		LastFaults:  int(number(m["last_faults"])),
		Deactivated: int(number(m["deactivated"])),
	}
	if raw, ok := m["started_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			s.StartedAt = t
		}
	}

	ops, _ := m["operations"].([]interface{})
	for _, raw := range ops {
		op, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		status := colony.OperationStatus{}
		status.Name, _ = op["name"].(string)
		status.Room, _ = op["room"].(string)
		status.Status, _ = op["status"].(string)
		missions, _ := op["missions"].([]interface{})
		for _, m := range missions {
			if name, ok := m.(string); ok {
				status.Missions = append(status.Missions, name)
			}
		}
		s.Operations = append(s.Operations, status)
	}
	return s
}

func number(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

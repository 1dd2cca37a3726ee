package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	DisplayName string             `json:"display_name"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type Rig struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	OwnerID     string             `json:"owner_id"`
	StageWidth  float64            `json:"stage_width"`
	StageDepth  float64            `json:"stage_depth"`
	StageHeight float64            `json:"stage_height"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type RigSnapshot struct {
	ID        string             `json:"id"`
	RigID     string             `json:"rig_id"`
	Version   int32              `json:"version"`
	Scene     []byte             `json:"scene"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

package models

import (
	"time"
)

// 注意：
// - 保持与 db/migrations 完全对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// BoardIdentity 映射 board_identity 表
type BoardIdentity struct {
	// 板卡唯一标识（MCU UID 的十六进制）
	UID            string     `gorm:"column:uid;type:text;primaryKey"`
	BoardName      *string    `gorm:"column:board_name;type:text"`
	ManufacturerID *string    `gorm:"column:manufacturer_id;type:text"`
	Signature      []byte     `gorm:"column:signature"`
	InfoSetAt      *time.Time `gorm:"column:info_set_at"`
	SignatureSetAt *time.Time `gorm:"column:signature_set_at"`
	// 审计字段
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BoardIdentity) TableName() string { return "board_identity" }

// EEPROMSnapshot 映射 eeprom_snapshots 表
type EEPROMSnapshot struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BoardUID  string    `gorm:"column:board_uid;type:text;not null;index:idx_eeprom_snapshots_board,priority:1"`
	Version   int32     `gorm:"column:version;not null"`
	Data      []byte    `gorm:"column:data;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EEPROMSnapshot) TableName() string { return "eeprom_snapshots" }

// CommandLog 映射 msp_command_log 表
type CommandLog struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string    `gorm:"column:session_id;type:text;not null"`
	Transport  string    `gorm:"column:transport;type:text;not null"`
	Cmd        int32     `gorm:"column:cmd;not null"`
	CmdName    string    `gorm:"column:cmd_name;type:text;not null"`
	Result     int16     `gorm:"column:result;not null"`
	Request    []byte    `gorm:"column:request"`
	ReplyLen   int32     `gorm:"column:reply_len;not null;default:0"`
	DurationUs int32     `gorm:"column:duration_us;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CommandLog) TableName() string { return "msp_command_log" }

// Package db 内置数据库迁移脚本
package db

import "embed"

// Migrations 迁移脚本（*_up.sql / *_down.sql）
//
//go:embed migrations/*.sql
var Migrations embed.FS

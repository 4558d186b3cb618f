package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/msp-server/internal/flash"
	"github.com/taoyao-code/msp-server/internal/health"
	"github.com/taoyao-code/msp-server/internal/tcpserver"
)

// NewHealthAggregator 创建健康检查聚合器，dbpool 为 nil 时不检查数据库
func NewHealthAggregator(dbpool *pgxpool.Pool, chip *flash.Chip) *health.Aggregator {
	agg := health.NewAggregator()
	if dbpool != nil {
		agg.AddChecker(health.NewDatabaseChecker(dbpool))
	}
	if chip != nil {
		agg.AddChecker(health.NewFlashChecker(chip))
	}
	return agg
}

// RegisterHealthRoutes 注册健康检查 HTTP 路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}

// AddTCPChecker 添加 TCP 检查器到聚合器
func AddTCPChecker(aggregator *health.Aggregator, tcpServer *tcpserver.Server) {
	aggregator.AddChecker(health.NewTCPChecker(tcpServer))
}

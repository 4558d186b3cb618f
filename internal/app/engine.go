package app

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/compress/huffman"
	cfgpkg "github.com/taoyao-code/msp-server/internal/config"
	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/flash"
	"github.com/taoyao-code/msp-server/internal/metrics"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
)

// EngineDeps 引擎装配所需的协作方
type EngineDeps struct {
	Config *fc.Config
	Store  fc.ConfigStore
	Board  fc.BoardStore
	// Chip 为 nil 时数据闪存视为未接入
	Chip    *flash.Chip
	Metrics *metrics.AppMetrics
}

// NewEngine 以模拟器填充外设并创建命令引擎
func NewEngine(cfg *cfgpkg.Config, deps EngineDeps, log *zap.Logger) (*msp.Engine, *fc.Simulator, error) {
	caps := cfg.Capabilities
	svc := fc.Services{Store: deps.Store, Board: deps.Board}
	if deps.Chip != nil {
		svc.Flash = deps.Chip
	} else {
		caps.Flash = false
		caps.HuffmanFlash = false
	}

	sim := fc.NewSimulator(log.Named("sim"))
	fctx := fc.NewContext(caps, cfg.Board, deps.Config, sim.Services(svc),
		fc.WithLogger(log.Named("fc")), fc.WithStoreTimeout(cfg.MSP.StoreTimeout))
	sim.Bind(fctx)

	opts := []msp.Option{msp.WithLogger(log.Named("msp"))}
	if deps.Metrics != nil {
		opts = append(opts, msp.WithObserver(deps.Metrics))
	}
	if cfg.Compression.Enabled && caps.HuffmanFlash {
		tbl, err := huffman.TableForModel(cfg.Compression.Model)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, msp.WithEncoder(func(out []byte) msp.StreamEncoder {
			return huffman.NewEncoder(tbl, out)
		}))
	} else {
		fctx.Caps.HuffmanFlash = false
	}

	log.Info("msp engine ready",
		zap.String("board", cfg.Board.BoardIdentifier),
		zap.String("uid", cfg.Board.UIDString()),
		zap.Bool("flash", caps.Flash),
		zap.Bool("huffman", fctx.Caps.HuffmanFlash))
	return msp.New(fctx, opts...), sim, nil
}

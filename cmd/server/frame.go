package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/protocol/mspwire"
)

var (
	frameCmdCode uint16
	framePayload string
	frameV2      bool
	frameDir     string
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "MSP 帧编解码工具",
}

var frameEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "把命令码与十六进制载荷编码为完整帧",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := encodeFrame(frameCmdCode, framePayload, frameV2, frameDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var frameDecodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "解析一段十六进制字节流中的所有帧",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decodeFrames(cmd.OutOrStdout(), strings.Join(args, ""))
	},
}

func init() {
	frameEncodeCmd.Flags().Uint16Var(&frameCmdCode, "cmd", 0, "命令码")
	frameEncodeCmd.Flags().StringVar(&framePayload, "payload", "", "十六进制载荷")
	frameEncodeCmd.Flags().BoolVar(&frameV2, "v2", false, "编码为 MSP v2")
	frameEncodeCmd.Flags().StringVar(&frameDir, "dir", "<", "方向：< 请求，> 应答，! 错误")
	frameCmd.AddCommand(frameEncodeCmd, frameDecodeCmd)
	rootCmd.AddCommand(frameCmd)
}

func encodeFrame(code uint16, payload string, v2 bool, dir string) (string, error) {
	p, err := hex.DecodeString(strings.ReplaceAll(payload, " ", ""))
	if err != nil {
		return "", fmt.Errorf("payload: %w", err)
	}
	if len(dir) != 1 {
		return "", errors.New("dir must be one of < > !")
	}
	f := mspwire.Frame{Version: mspwire.V1, Direction: dir[0], Cmd: code, Payload: p}
	if v2 {
		f.Version = mspwire.V2
	}
	b, err := mspwire.Encode(f)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func decodeFrames(w io.Writer, s string) error {
	raw, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return err
	}
	frames, ferr := mspwire.NewStreamDecoder(0, true).Feed(raw)
	for _, f := range frames {
		name := "-"
		if f.Cmd <= mspwire.MaxV1Cmd {
			name = msp.CommandName(uint8(f.Cmd))
		}
		fmt.Fprintf(w, "v%d %c cmd=%d (%s) flags=%d len=%d payload=%s\n",
			f.Version, f.Direction, f.Cmd, name, f.Flags, len(f.Payload), hex.EncodeToString(f.Payload))
	}
	if ferr != nil {
		fmt.Fprintf(w, "errors: %v\n", ferr)
	}
	if len(frames) == 0 {
		return fmt.Errorf("no complete frame in %d bytes", len(raw))
	}
	return nil
}

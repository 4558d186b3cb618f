package msp

// Result 命令处理结果
type Result int8

const (
	// ResultAck 成功，发送应答
	ResultAck Result = 1
	// ResultError 失败，发送错误应答
	ResultError Result = -1
	// ResultNoReply 不发送任何应答
	ResultNoReply Result = -2
	// ResultUnknown 当前阶段不识别该命令（仅在处理链内部使用）
	ResultUnknown Result = -3
)

func (r Result) String() string {
	switch r {
	case ResultAck:
		return "ack"
	case ResultError:
		return "error"
	case ResultNoReply:
		return "no_reply"
	case ResultUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

func ack(ok bool) Result {
	if ok {
		return ResultAck
	}
	return ResultUnknown
}

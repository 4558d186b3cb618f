package adapter

// Adapter 字节流协议适配器：传输层把原始字节交给适配器，由适配器负责半包/粘包
// - Sniff 用于首包初判（日志与协议标记）
// - ProcessBytes 返回错误时传输层结束会话
type Adapter interface {
	Sniff(prefix []byte) bool
	ProcessBytes(p []byte) error
}

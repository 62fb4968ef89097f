package vm

type MessageType int

const (
	_ MessageType = iota
	MsgDebug
	MsgWarning
	MsgPlace      // A program was loaded into the core.
	MsgSpawn      // A process was created.
	MsgDead       // A process was removed.
	MsgEliminated // A program lost its last process.
	MsgGameOver
	MsgPause // Never sent by the vm, viewers use it to pause themselves.
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgWarning:
		return "Warning"
	case MsgPlace:
		return "Place"
	case MsgSpawn:
		return "Spawn"
	case MsgDead:
		return "Dead"
	case MsgEliminated:
		return "Eliminated"
	case MsgGameOver:
		return "Game Over"
	case MsgPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

type Message struct {
	Type    MessageType
	Process *Process
	Message string
}

func NewMessage(mt MessageType, p *Process, msg string) Message {
	return Message{
		Type:    mt,
		Process: p,
		Message: msg,
	}
}

// emit sends a message when someone listens.
func (cw *Corewar) emit(mt MessageType, p *Process, msg string) {
	if cw.Messages == nil {
		return
	}
	cw.Messages <- NewMessage(mt, p, msg)
}

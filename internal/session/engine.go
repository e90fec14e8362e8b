package session

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/owncheck/owncheck/internal/policy"
	"github.com/owncheck/owncheck/internal/protocol"
	"github.com/owncheck/owncheck/internal/protocol/frame"
)

// Engine runs probe sessions against the per-user client endpoints.
// It is stateless across sessions; the policy is shared read-only.
type Engine struct {
	cfg    Config
	policy *policy.Policy
	log    zerolog.Logger
}

func New(cfg Config, pol *policy.Policy, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg.WithDefaults(), policy: pol, log: log}
}

// state tracks the session conversation. The REGISTER_PATH handling is
// an explicit transition: the pending path registration is replaced by
// a pending root-folder status, so the amount of outstanding work
// never changes on that step.
type state int

const (
	stateAwaitVersionAndPath state = iota
	stateAwaitFolderStatus
	stateDone
)

// conversation is the per-session bookkeeping: which replies are still
// owed before the session may terminate.
type conversation struct {
	state       state
	needVersion bool
	needStatus  bool
}

func (c *conversation) settled() bool {
	return !c.needVersion && c.state == stateAwaitFolderStatus && !c.needStatus
}

// Run executes one full probe conversation with username's client and
// returns its outcome. Any transport or protocol failure aborts this
// session only; the error wraps protocol.ErrConnection or one of the
// protocol parse sentinels.
func (e *Engine) Run(username string) (Outcome, error) {
	addr := fmt.Sprintf(e.cfg.SocketTemplate, username)
	log := e.log.With().Str("user", username).Str("socket", addr).Logger()

	dialer := net.Dialer{Timeout: e.cfg.Timeout}
	conn, err := dialer.Dial("unix", addr)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: dial %s: %v", protocol.ErrConnection, addr, err)
	}
	defer conn.Close()
	log.Debug().Msg("connected")

	return e.converse(conn, username, log)
}

func (e *Engine) converse(conn net.Conn, username string, log zerolog.Logger) (Outcome, error) {
	out := Outcome{User: username}
	reader := frame.NewReader(conn)

	if err := e.send(conn, protocol.Message{Command: protocol.CmdVersion}, log); err != nil {
		return Outcome{}, err
	}
	// One VERSION reply plus one unsolicited REGISTER_PATH are owed;
	// the peer does not guarantee their order.
	conv := conversation{state: stateAwaitVersionAndPath, needVersion: true}

	for conv.state != stateDone {
		line, err := reader.ReadLine(e.cfg.Timeout)
		if err != nil {
			return Outcome{}, err
		}
		msg, err := protocol.ParseLine(line)
		if err != nil {
			return Outcome{}, err
		}
		log.Debug().Str("command", string(msg.Command)).Strs("args", msg.Args).Msg("received")

		if err := e.dispatch(conn, msg, &conv, &out, log); err != nil {
			return Outcome{}, err
		}
		if conv.settled() {
			conv.state = stateDone
		}
	}
	log.Debug().Str("folder", out.RootFolder).Msg("session complete")
	return out, nil
}

func (e *Engine) dispatch(conn net.Conn, msg protocol.Message, conv *conversation, out *Outcome, log zerolog.Logger) error {
	switch msg.Command {
	case protocol.CmdVersion:
		if !conv.needVersion {
			log.Debug().Msg("ignoring duplicate version reply")
			return nil
		}
		if err := e.handleVersion(msg, out); err != nil {
			return err
		}
		conv.needVersion = false

	case protocol.CmdRegisterPath:
		if conv.state != stateAwaitVersionAndPath {
			log.Debug().Msg("ignoring duplicate path registration")
			return nil
		}
		folder, err := msg.RegisteredPath()
		if err != nil {
			return err
		}
		out.RootFolder = folder
		// The owed path registration becomes an owed folder status.
		if err := e.send(conn, protocol.Message{
			Command: protocol.CmdRetrieveFolderStatus,
			Args:    []string{folder},
		}, log); err != nil {
			return err
		}
		conv.state = stateAwaitFolderStatus
		conv.needStatus = true

	case protocol.CmdStatus:
		name, folder, err := msg.FolderStatus()
		if err != nil {
			return err
		}
		if out.RootFolder == "" || folder != out.RootFolder {
			// Sub-folder update, or a status arriving before the root
			// is known. Either way it settles nothing.
			log.Debug().Str("folder", folder).Msg("ignoring status for non-root folder")
			return nil
		}
		if !conv.needStatus {
			log.Debug().Msg("ignoring duplicate root folder status")
			return nil
		}
		e.handleStatus(name, folder, out)
		conv.needStatus = false

	default:
		log.Debug().Str("command", string(msg.Command)).Msg("ignoring unrecognized command")
	}
	return nil
}

func (e *Engine) handleVersion(msg protocol.Message, out *Outcome) error {
	client, proto, err := msg.VersionInfo()
	if err != nil {
		return err
	}
	out.ClientVersion = client

	outdated, err := e.policy.CheckVersion(client)
	if err != nil {
		return fmt.Errorf("%w: client version %q: %v", protocol.ErrBadVersion, client, err)
	}
	if outdated {
		out.WarningReason = fmt.Sprintf("%s client version %s is older than required %s",
			out.User, client, e.policy.MinimumVersionText())
	}

	supported, err := policy.ProtocolSupported(proto)
	if err != nil {
		return fmt.Errorf("%w: protocol version %q: %v", protocol.ErrBadVersion, proto, err)
	}
	if !supported {
		out.ErrorReason = fmt.Sprintf("%s client %s speaks unsupported protocol version %s",
			out.User, client, proto)
	}
	return nil
}

func (e *Engine) handleStatus(name, folder string, out *Outcome) {
	sev := e.policy.ClassifyStatus(name)
	line := fmt.Sprintf("%s folder '%s' is in '%s' state (%s)", out.User, folder, name, sev.Label())
	out.StatusLines = append(out.StatusLines, line)
	switch sev {
	case policy.Warning:
		out.WarningReason = line
	case policy.Error:
		out.ErrorReason = line
	case policy.Unknown:
		out.UnknownReason = line
	}
}

func (e *Engine) send(conn net.Conn, msg protocol.Message, log zerolog.Logger) error {
	if e.cfg.Timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(e.cfg.Timeout)); err != nil {
			return fmt.Errorf("%w: set write deadline: %v", protocol.ErrConnection, err)
		}
	}
	if _, err := conn.Write(msg.Encode()); err != nil {
		return fmt.Errorf("%w: send %s: %v", protocol.ErrConnection, msg.Command, err)
	}
	log.Debug().Str("command", string(msg.Command)).Msg("sent")
	return nil
}

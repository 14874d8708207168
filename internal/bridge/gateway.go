package bridge

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nexuslang/nexus/internal/config"
)

// Gateway is a SpeechPort backed by an external gRPC service. The service
// contract is loaded from a .proto file at dial time, so the gateway works
// against any service exposing Say and Listen methods without generated
// stubs. Request fields are matched by name and skipped when the service's
// schema lacks them.
type Gateway struct {
	conn     *grpc.ClientConn
	service  *desc.ServiceDescriptor
	sayMD    *desc.MethodDescriptor
	listenMD *desc.MethodDescriptor
}

// DialGateway connects to the speech service named in cfg. The proto file
// is parsed eagerly so schema problems surface at startup, not first use.
func DialGateway(cfg *config.Config) (*Gateway, error) {
	gw := cfg.Gateway
	if gw.Target == "" {
		return nil, fmt.Errorf("gateway: no target configured")
	}

	parser := protoparse.Parser{ImportPaths: append([]string{"."}, gw.ImportDirs...)}
	fds, err := parser.ParseFiles(gw.ProtoPath)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse proto: %w", err)
	}

	var svc *desc.ServiceDescriptor
	for _, fd := range fds {
		if s := fd.FindService(gw.Service); s != nil {
			svc = s
			break
		}
	}
	if svc == nil {
		return nil, fmt.Errorf("gateway: service %q not found in %s", gw.Service, gw.ProtoPath)
	}

	say := svc.FindMethodByName("Say")
	listen := svc.FindMethodByName("Listen")
	if say == nil || listen == nil {
		return nil, fmt.Errorf("gateway: service %q must expose Say and Listen", gw.Service)
	}

	conn, err := grpc.NewClient(gw.Target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("gateway: dial %s: %w", gw.Target, err)
	}

	return &Gateway{conn: conn, service: svc, sayMD: say, listenMD: listen}, nil
}

func (g *Gateway) Close() error { return g.conn.Close() }

func (g *Gateway) Say(ctx context.Context, req SpeechRequest) error {
	msg := dynamic.NewMessage(g.sayMD.GetInputType())
	setStringField(msg, "text", req.Text)
	setStringField(msg, "emotion", req.Emotion)
	setStringField(msg, "voice_id", req.VoiceID)
	if fd := msg.GetMessageDescriptor().FindFieldByName("speed"); fd != nil {
		msg.SetFieldByName("speed", req.Speed)
	}

	resp := dynamic.NewMessage(g.sayMD.GetOutputType())
	return g.conn.Invoke(ctx, methodPath(g.service, g.sayMD), msg, resp)
}

func (g *Gateway) Listen(ctx context.Context, req ListenRequest) (string, error) {
	msg := dynamic.NewMessage(g.listenMD.GetInputType())
	setStringField(msg, "language", req.Language)
	if fd := msg.GetMessageDescriptor().FindFieldByName("timeout_ms"); fd != nil {
		msg.SetFieldByName("timeout_ms", req.Timeout.Milliseconds())
	}

	resp := dynamic.NewMessage(g.listenMD.GetOutputType())
	if err := g.conn.Invoke(ctx, methodPath(g.service, g.listenMD), msg, resp); err != nil {
		return "", err
	}

	for _, name := range []string{"text", "transcript"} {
		if fd := resp.GetMessageDescriptor().FindFieldByName(name); fd != nil {
			if s, ok := resp.GetFieldByName(name).(string); ok {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("gateway: Listen response carries no text field")
}

// methodPath builds the invoke path "/pkg.Service/Method".
func methodPath(svc *desc.ServiceDescriptor, md *desc.MethodDescriptor) string {
	return "/" + svc.GetFullyQualifiedName() + "/" + md.GetName()
}

func setStringField(msg *dynamic.Message, name, value string) {
	if value == "" {
		return
	}
	if fd := msg.GetMessageDescriptor().FindFieldByName(name); fd != nil {
		msg.SetFieldByName(name, value)
	}
}

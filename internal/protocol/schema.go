package protocol

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

var eventTypes = map[Kind]reflect.Type{
	KindGameUpdate:           reflect.TypeOf(GameUpdate{}),
	KindDealerUpdate:         reflect.TypeOf(DealerUpdate{}),
	KindTournamentUpdate:     reflect.TypeOf(TournamentUpdate{}),
	KindRoundStart:           reflect.TypeOf(RoundStart{}),
	KindRoundPhase:           reflect.TypeOf(RoundPhase{}),
	KindRoundEnd:             reflect.TypeOf(RoundEnd{}),
	KindBetPlaced:            reflect.TypeOf(BetPlaced{}),
	KindChatMessage:          reflect.TypeOf(ChatMessage{}),
	KindPlayerJoined:         reflect.TypeOf(PlayerJoined{}),
	KindPlayerLeft:           reflect.TypeOf(PlayerLeft{}),
	KindStreamQualityChanged: reflect.TypeOf(StreamQualityChanged{}),
	KindPromotionUpdate:      reflect.TypeOf(PromotionUpdate{}),
}

var commandTypes = map[Kind]reflect.Type{
	CmdJoinGame:           reflect.TypeOf(JoinGame{}),
	CmdLeaveGame:          reflect.TypeOf(LeaveGame{}),
	CmdPlaceBet:           reflect.TypeOf(PlaceBet{}),
	CmdChatMessage:        reflect.TypeOf(SendChat{}),
	CmdSwitchCamera:       reflect.TypeOf(SwitchCamera{}),
	CmdChangeQuality:      reflect.TypeOf(ChangeQuality{}),
	CmdTipDealer:          reflect.TypeOf(TipDealer{}),
	CmdRegisterTournament: reflect.TypeOf(RegisterTournament{}),
}

// Schema describes every frame in both directions. Each frame schema pins
// its "type" so a document matches exactly one branch per direction.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	events := make([]*jsonschema.Schema, 0, len(EventKinds))
	for _, k := range EventKinds {
		events = append(events, frameSchema(&reflector, k, eventTypes[k], "Authority frame "+string(k)))
	}
	commands := make([]*jsonschema.Schema, 0, len(CommandKinds))
	for _, k := range CommandKinds {
		commands = append(commands, frameSchema(&reflector, k, commandTypes[k], "Client command "+string(k)))
	}
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Live table sync protocol v1",
		Description: "Frames exchanged between a live table client and its authority.",
		AnyOf: []*jsonschema.Schema{
			{Title: "Inbound event", OneOf: events},
			{Title: "Outbound command", OneOf: commands},
		},
	}
}

func frameSchema(r *jsonschema.Reflector, kind Kind, t reflect.Type, title string) *jsonschema.Schema {
	s := r.ReflectFromType(t)
	s.Version = ""
	s.Title = title
	s.Properties.Set("type", &jsonschema.Schema{Type: "string", Const: string(kind)})
	s.Properties.Set("v", &jsonschema.Schema{Type: "integer", Const: Version})
	s.Required = append(s.Required, "type")
	return s
}

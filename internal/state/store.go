package state

import (
	"fmt"

	"casino-livesync/internal/game"

	"github.com/hashicorp/go-memdb"
)

const (
	tableGames       = "games"
	tableDealers     = "dealers"
	tableTournaments = "tournaments"
	tableChat        = "chat"
	tablePromotions  = "promotions"

	promotionsKey = "active"
)

// chatLog is the stored form of one game's bounded chat history.
type chatLog struct {
	GameID   string
	Messages []game.ChatMessage
}

type promotionSet struct {
	Key   string
	Items []game.Promotion
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableGames: {
				Name: tableGames,
				Indexes: map[string]*memdb.IndexSchema{
					"id":     {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"type":   {Name: "type", Indexer: &memdb.StringFieldIndex{Field: "Type"}},
					"status": {Name: "status", Indexer: &memdb.StringFieldIndex{Field: "Status"}},
				},
			},
			tableDealers: {
				Name: tableDealers,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			tableTournaments: {
				Name: tableTournaments,
				Indexes: map[string]*memdb.IndexSchema{
					"id":     {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"status": {Name: "status", Indexer: &memdb.StringFieldIndex{Field: "Status"}},
				},
			},
			tableChat: {
				Name: tableChat,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "GameID"}},
				},
			},
			tablePromotions: {
				Name: tablePromotions,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Key"}},
				},
			},
		},
	}
}

// Store is the in-memory entity cache. Stored objects are never mutated in
// place: writers insert fresh copies and readers get clones, so a reader
// always observes a whole entity.
type Store struct {
	db *memdb.MemDB
}

func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("state: create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

type Stats struct {
	Games        int `json:"games"`
	Dealers      int `json:"dealers"`
	Tournaments  int `json:"tournaments"`
	ChatMessages int `json:"chat_messages"`
	Promotions   int `json:"promotions"`
}

func (s *Store) Game(id string) (*game.Game, bool) {
	g := lookupGame(s.db.Txn(false), id)
	if g == nil {
		return nil, false
	}
	return g.Clone(), true
}

// Games returns every game ordered by id.
func (s *Store) Games() []*game.Game {
	return s.gamesBy("id")
}

func (s *Store) GamesByType(t game.GameType) []*game.Game {
	return s.gamesBy("type", string(t))
}

func (s *Store) GamesByStatus(st game.Status) []*game.Game {
	return s.gamesBy("status", string(st))
}

func (s *Store) gamesBy(index string, args ...any) []*game.Game {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableGames, index, args...)
	if err != nil {
		return nil
	}
	var out []*game.Game
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj.(*game.Game).Clone())
	}
	return out
}

func (s *Store) Dealer(id string) (*game.Dealer, bool) {
	d := lookupDealer(s.db.Txn(false), id)
	if d == nil {
		return nil, false
	}
	return d.Clone(), true
}

func (s *Store) Dealers() []*game.Dealer {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableDealers, "id")
	if err != nil {
		return nil
	}
	var out []*game.Dealer
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj.(*game.Dealer).Clone())
	}
	return out
}

func (s *Store) Tournament(id string) (*game.Tournament, bool) {
	t := lookupTournament(s.db.Txn(false), id)
	if t == nil {
		return nil, false
	}
	return t.Clone(), true
}

// Tournaments returns all tournaments, or only those in the given statuses.
func (s *Store) Tournaments(statuses ...game.TournamentStatus) []*game.Tournament {
	txn := s.db.Txn(false)
	var out []*game.Tournament
	collect := func(index string, args ...any) {
		it, err := txn.Get(tableTournaments, index, args...)
		if err != nil {
			return
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			out = append(out, obj.(*game.Tournament).Clone())
		}
	}
	if len(statuses) == 0 {
		collect("id")
		return out
	}
	for _, st := range statuses {
		collect("status", string(st))
	}
	return out
}

// Chat returns the game's chat history, oldest first.
func (s *Store) Chat(gameID string) []game.ChatMessage {
	cl := lookupChat(s.db.Txn(false), gameID)
	if cl == nil {
		return nil
	}
	return append([]game.ChatMessage(nil), cl.Messages...)
}

func (s *Store) Promotions() []game.Promotion {
	set := lookupPromotions(s.db.Txn(false))
	if set == nil {
		return nil
	}
	out := make([]game.Promotion, len(set.Items))
	for i, p := range set.Items {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) Empty() bool {
	txn := s.db.Txn(false)
	for _, table := range []string{tableGames, tableDealers, tableTournaments} {
		obj, err := txn.First(table, "id")
		if err == nil && obj != nil {
			return false
		}
	}
	return true
}

func (s *Store) Stats() Stats {
	txn := s.db.Txn(false)
	var st Stats
	st.Games = count(txn, tableGames)
	st.Dealers = count(txn, tableDealers)
	st.Tournaments = count(txn, tableTournaments)
	if it, err := txn.Get(tableChat, "id"); err == nil {
		for obj := it.Next(); obj != nil; obj = it.Next() {
			st.ChatMessages += len(obj.(*chatLog).Messages)
		}
	}
	if set := lookupPromotions(txn); set != nil {
		st.Promotions = len(set.Items)
	}
	return st
}

func count(txn *memdb.Txn, table string) int {
	it, err := txn.Get(table, "id")
	if err != nil {
		return 0
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}

func lookupGame(txn *memdb.Txn, id string) *game.Game {
	obj, err := txn.First(tableGames, "id", id)
	if err != nil || obj == nil {
		return nil
	}
	return obj.(*game.Game)
}

func lookupDealer(txn *memdb.Txn, id string) *game.Dealer {
	obj, err := txn.First(tableDealers, "id", id)
	if err != nil || obj == nil {
		return nil
	}
	return obj.(*game.Dealer)
}

func lookupTournament(txn *memdb.Txn, id string) *game.Tournament {
	obj, err := txn.First(tableTournaments, "id", id)
	if err != nil || obj == nil {
		return nil
	}
	return obj.(*game.Tournament)
}

func lookupChat(txn *memdb.Txn, gameID string) *chatLog {
	obj, err := txn.First(tableChat, "id", gameID)
	if err != nil || obj == nil {
		return nil
	}
	return obj.(*chatLog)
}

func lookupPromotions(txn *memdb.Txn) *promotionSet {
	obj, err := txn.First(tablePromotions, "id", promotionsKey)
	if err != nil || obj == nil {
		return nil
	}
	return obj.(*promotionSet)
}

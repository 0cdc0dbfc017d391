package mockserver

import (
	"sort"
	"strings"

	"github.com/lexicard-dev/lexicard/pkg/protocol"
)

const maxRoomPlayers = 6

// deck is the fixed card pool dealt to players, cycled as needed.
var deck = []protocol.WordCard{
	{ID: 1, Word: "the", WordClass: "article"},
	{ID: 2, Word: "quick", WordClass: "adjective"},
	{ID: 3, Word: "brown", WordClass: "adjective"},
	{ID: 4, Word: "fox", WordClass: "noun"},
	{ID: 5, Word: "jumps", WordClass: "verb"},
	{ID: 6, Word: "over", WordClass: "preposition"},
	{ID: 7, Word: "lazy", WordClass: "adjective"},
	{ID: 8, Word: "dog", WordClass: "noun"},
	{ID: 9, Word: "runs", WordClass: "verb"},
	{ID: 10, Word: "slowly", WordClass: "adverb"},
}

const handSize = 5

type seat struct {
	uid      uint64
	nickname string
	ready    bool
	order    int
}

type room struct {
	id      string
	name    string
	players map[uint64]*seat
	nextPos int
	game    *game
}

func newRoom(id, name string) *room {
	if name == "" {
		name = id
	}
	return &room{
		id:      id,
		name:    name,
		players: make(map[uint64]*seat),
	}
}

func (rm *room) addPlayer(c *conn) {
	rm.players[c.uid] = &seat{uid: c.uid, nickname: c.nickname, order: rm.nextPos}
	rm.nextPos++
}

func (rm *room) removePlayer(uid uint64) {
	delete(rm.players, uid)
	if rm.game != nil {
		rm.game.dropPlayer(uid)
	}
}

func (rm *room) empty() bool      { return len(rm.players) == 0 }
func (rm *room) full() bool       { return len(rm.players) >= maxRoomPlayers }
func (rm *room) playerCount() int { return len(rm.players) }

func (rm *room) setReady(uid uint64, ready bool) {
	if st := rm.players[uid]; st != nil {
		st.ready = ready
	}
}

func (rm *room) allReady() bool {
	for _, st := range rm.players {
		if !st.ready {
			return false
		}
	}
	return len(rm.players) > 0
}

// seatsInOrder returns seats sorted by join order for stable rosters and
// turn rotation.
func (rm *room) seatsInOrder() []*seat {
	out := make([]*seat, 0, len(rm.players))
	for _, st := range rm.players {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

func (rm *room) summary() protocol.Room {
	return protocol.Room{
		ID:             rm.id,
		Name:           rm.name,
		MaxPlayers:     maxRoomPlayers,
		CurrentPlayers: int32(len(rm.players)),
	}
}

func (rm *room) roster() []protocol.RoomPlayer {
	seats := rm.seatsInOrder()
	out := make([]protocol.RoomPlayer, 0, len(seats))
	for _, st := range seats {
		out = append(out, protocol.RoomPlayer{
			UID:      st.uid,
			Nickname: st.nickname,
			PosX:     int32(st.order),
			IsReady:  st.ready,
		})
	}
	return out
}

func (rm *room) detail() *protocol.RoomDetail {
	summary := rm.summary()
	return &protocol.RoomDetail{Room: &summary, Players: rm.roster()}
}

func (rm *room) startGame() {
	rm.game = newGame(rm.seatsInOrder())
}

func (rm *room) endGame() {
	rm.game = nil
	for _, st := range rm.players {
		st.ready = false
	}
}

func (rm *room) applyAction(uid uint64, action *protocol.GameAction) protocol.ErrorCode {
	if action == nil {
		return protocol.CodeInvalidParam
	}
	return rm.game.apply(uid, action)
}

// game is the running match: per-player hands, the shared table, and the
// turn rotation.
type game struct {
	order []uint64
	hands map[uint64][]protocol.WordCard
	names map[uint64]string
	score map[uint64]int32
	table protocol.CardTable
	turn  int
	over  bool
}

func newGame(seats []*seat) *game {
	g := &game{
		hands: make(map[uint64][]protocol.WordCard),
		names: make(map[uint64]string),
		score: make(map[uint64]int32),
	}
	next := 0
	for _, st := range seats {
		g.order = append(g.order, st.uid)
		g.names[st.uid] = st.nickname
		hand := make([]protocol.WordCard, 0, handSize)
		for i := 0; i < handSize; i++ {
			hand = append(hand, deck[next%len(deck)])
			next++
		}
		g.hands[st.uid] = hand
	}
	return g
}

func (g *game) currentTurn() uint64 {
	if len(g.order) == 0 {
		return 0
	}
	return g.order[g.turn%len(g.order)]
}

func (g *game) advanceTurn() {
	if len(g.order) > 0 {
		g.turn = (g.turn + 1) % len(g.order)
	}
}

func (g *game) dropPlayer(uid uint64) {
	for i, id := range g.order {
		if id == uid {
			g.order = append(g.order[:i], g.order[i+1:]...)
			if len(g.order) == 0 {
				g.over = true
			} else {
				g.turn %= len(g.order)
			}
			break
		}
	}
	delete(g.hands, uid)
	if len(g.order) < 2 {
		g.over = true
	}
}

func (g *game) apply(uid uint64, action *protocol.GameAction) protocol.ErrorCode {
	switch action.Type {
	case protocol.ActionPlaceCard:
		if g.currentTurn() != uid {
			return protocol.CodeNotYourTurn
		}
		if action.PlaceCard == nil {
			return protocol.CodeInvalidParam
		}
		return g.placeCard(uid, action.PlaceCard)

	case protocol.ActionSkipTurn:
		if g.currentTurn() != uid {
			return protocol.CodeNotYourTurn
		}
		g.advanceTurn()
		return protocol.CodeOK

	case protocol.ActionSurrender:
		g.over = true
		return protocol.CodeOK

	case protocol.ActionAutoChat, protocol.ActionCharMove:
		// Social actions never gate on turn; they just replicate.
		return protocol.CodeOK

	default:
		return protocol.CodeInvalidAction
	}
}

func (g *game) placeCard(uid uint64, pc *protocol.PlaceCardAction) protocol.ErrorCode {
	hand := g.hands[uid]
	idx := -1
	for i := range hand {
		if hand[i].ID == pc.CardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return protocol.CodeInvalidCard
	}
	if pc.TargetIndex < 0 || int(pc.TargetIndex) > len(g.table.Cards) {
		return protocol.CodeInvalidOrder
	}

	card := hand[idx]
	g.hands[uid] = append(hand[:idx], hand[idx+1:]...)

	cards := g.table.Cards
	cards = append(cards, protocol.WordCard{})
	copy(cards[pc.TargetIndex+1:], cards[pc.TargetIndex:])
	cards[pc.TargetIndex] = card
	g.table.Cards = cards
	g.table.Sentence = joinWords(cards)

	g.score[uid]++
	if len(g.hands[uid]) == 0 {
		g.over = true
	}
	g.advanceTurn()
	return protocol.CodeOK
}

func joinWords(cards []protocol.WordCard) string {
	words := make([]string, len(cards))
	for i := range cards {
		words[i] = cards[i].Word
	}
	return strings.Join(words, " ")
}

func (g *game) snapshot() *protocol.GameState {
	state := &protocol.GameState{
		Table:       &protocol.CardTable{Cards: g.table.Cards, Sentence: g.table.Sentence},
		CurrentTurn: int32(g.currentTurn()),
	}
	for _, uid := range g.order {
		state.Players = append(state.Players, protocol.BattlePlayer{
			ID:           uid,
			Name:         g.names[uid],
			Cards:        g.hands[uid],
			CurrentScore: g.score[uid],
		})
	}
	return state
}

func (g *game) standings() []protocol.BattlePlayer {
	out := make([]protocol.BattlePlayer, 0, len(g.order))
	for _, uid := range g.order {
		out = append(out, protocol.BattlePlayer{
			ID:           uid,
			Name:         g.names[uid],
			CurrentScore: g.score[uid],
		})
	}
	return out
}

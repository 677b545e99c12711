package game

import "math/rand"

type Suit int

type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9", Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

var suitNames = map[Suit]string{Spades: "s", Hearts: "h", Diamonds: "d", Clubs: "c"}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return rankNames[c.Rank] + suitNames[c.Suit]
}

// BlackjackValue counts aces as 11; HandTotal demotes them as needed.
func (c Card) BlackjackValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// BaccaratValue is the card's pip value modulo ten.
func (c Card) BaccaratValue() int {
	if c.Rank >= Ten && c.Rank <= King {
		return 0
	}
	if c.Rank == Ace {
		return 1
	}
	return int(c.Rank)
}

type Deck struct {
	cards []Card
}

func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

func (d *Deck) Shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) Deal() Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

func HandTotal(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.BlackjackValue()
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func CardStrings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

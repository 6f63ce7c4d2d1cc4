package store

import (
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// TradePatch is a partial trade update.
type TradePatch struct {
	Symbol   *string
	Side     *model.TradeSide
	Entry    *float64
	Exit     *float64
	Quantity *float64
	Profit   *float64
	Reason   *string
	Strategy *string
	Mistakes *string
	Lessons  *string
	Date     *time.Time
}

type tradeCodec struct{}

func (tradeCodec) Collection() string { return tradesCollection }

func (tradeCodec) Decode(rec remote.Record) model.Trade {
	f := rec.Fields
	return model.Trade{
		Meta:     metaFromRecord(rec),
		Symbol:   f.String("symbol"),
		Side:     model.TradeSide(f.String("type")),
		Entry:    f.Float("entry"),
		Exit:     f.Float("exit"),
		Quantity: f.Float("quantity"),
		Profit:   f.Float("profit"),
		Reason:   f.String("reason"),
		Strategy: f.String("strategy"),
		Mistakes: f.String("mistakes"),
		Lessons:  f.String("lessons"),
		Date:     f.TimeOrNow("date"),
	}
}

func (tradeCodec) Encode(t model.Trade) remote.Fields {
	return remote.Fields{
		"symbol":   t.Symbol,
		"type":     string(t.Side),
		"entry":    t.Entry,
		"exit":     t.Exit,
		"quantity": t.Quantity,
		"profit":   t.Profit,
		"reason":   t.Reason,
		"strategy": t.Strategy,
		"mistakes": t.Mistakes,
		"lessons":  t.Lessons,
		"date":     remote.FromTime(t.Date),
	}
}

func (tradeCodec) EncodePatch(p TradePatch) remote.Fields {
	fields := remote.Fields{}
	if p.Symbol != nil {
		fields["symbol"] = *p.Symbol
	}
	if p.Side != nil {
		fields["type"] = string(*p.Side)
	}
	if p.Entry != nil {
		fields["entry"] = *p.Entry
	}
	if p.Exit != nil {
		fields["exit"] = *p.Exit
	}
	if p.Quantity != nil {
		fields["quantity"] = *p.Quantity
	}
	if p.Profit != nil {
		fields["profit"] = *p.Profit
	}
	if p.Reason != nil {
		fields["reason"] = *p.Reason
	}
	if p.Strategy != nil {
		fields["strategy"] = *p.Strategy
	}
	if p.Mistakes != nil {
		fields["mistakes"] = *p.Mistakes
	}
	if p.Lessons != nil {
		fields["lessons"] = *p.Lessons
	}
	if p.Date != nil {
		fields["date"] = remote.FromTime(*p.Date)
	}
	return fields
}

func (tradeCodec) Merge(t model.Trade, p TradePatch) model.Trade {
	if p.Symbol != nil {
		t.Symbol = *p.Symbol
	}
	if p.Side != nil {
		t.Side = *p.Side
	}
	if p.Entry != nil {
		t.Entry = *p.Entry
	}
	if p.Exit != nil {
		t.Exit = *p.Exit
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.Profit != nil {
		t.Profit = *p.Profit
	}
	if p.Reason != nil {
		t.Reason = *p.Reason
	}
	if p.Strategy != nil {
		t.Strategy = *p.Strategy
	}
	if p.Mistakes != nil {
		t.Mistakes = *p.Mistakes
	}
	if p.Lessons != nil {
		t.Lessons = *p.Lessons
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

func (tradeCodec) Stamped(t model.Trade, m model.Meta) model.Trade {
	t.Meta = m
	return t
}

// TradeStore manages the trade journal cache.
type TradeStore = Collection[model.Trade, TradePatch]

func NewTradeStore(gw remote.Gateway, session auth.Session) *TradeStore {
	return NewCollection[model.Trade, TradePatch](gw, session, tradeCodec{})
}

package model

// Strategy kinds form a closed enumeration. Settlement behavior is resolved
// through a registry keyed by kind; an unknown kind is a programming error
// surfaced when the registry is built, never a runtime branch.
const (
	StrategyKindClassic = "CLASSIC"
	StrategyKindUno     = "UNO"
	StrategyKindUcdc    = "UCDC"
	StrategyKindStock   = "STOCK"
)

// Strategy is a configured trading program (bot) that owns positions and
// dictates settlement rules.
type Strategy struct {
	BotID    string `gorm:"primaryKey;size:255" json:"bot_id"`
	Kind     string `gorm:"size:50;not null" json:"kind"`
	Name     string `gorm:"size:255" json:"name"`
	Duration string `gorm:"size:50" json:"duration"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

func (Strategy) TableName() string {
	return "strategies"
}

func (s *Strategy) IsUno() bool     { return s.Kind == StrategyKindUno }
func (s *Strategy) IsClassic() bool { return s.Kind == StrategyKindClassic }
func (s *Strategy) IsUcdc() bool    { return s.Kind == StrategyKindUcdc }
func (s *Strategy) IsStock() bool   { return s.Kind == StrategyKindStock }

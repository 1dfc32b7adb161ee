package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconFact      = "\U000F0220" // 󰈠
	IconFootnote  = "\U000F0219" // 󰈙
	IconHidden    = "\U000F0209" // 󰈉
	IconSigned    = "\U000F0AEB" // 󰫫
	IconCalc      = "\U000F00EC" // 󰃬
	IconSearch    = "\uf002"     // 
	IconIncrease  = "\U000F005D" // 󰁝
	IconDecrease  = "\U000F0045" // 󰁅
	IconCheck     = "\uf14a"     // 
	IconUnchecked = "\uf096"     // 
	IconInfo      = "\uf05a"     // 
	IconWarning   = "\uf071"     // 
	IconError     = "\uf057"     // 
)

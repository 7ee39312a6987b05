package morality

import "strings"

const (
	reactionSharedAlignment = 0.2
	reactionOpposedEthic    = -0.3
	reactionInfamous        = -0.4
	reactionNotorious       = -0.2

	infamousLevel  = 50
	notoriousLevel = 25
)

var npcTypeGroups = map[string]Group{
	"guard":    GroupLawfulAuthorities,
	"official": GroupLawfulAuthorities,
	"commoner": GroupCommonFolk,
	"merchant": GroupCommonFolk,
	"criminal": GroupCriminalUnderworld,
	"thief":    GroupCriminalUnderworld,
	"priest":   GroupReligiousOrders,
	"paladin":  GroupReligiousOrders,
	"mage":     GroupMagicalCommunity,
	"scholar":  GroupMagicalCommunity,
}

// NPCReactionModifier scores how an NPC of npcType and npcAlignment is
// disposed toward the player, in [-1, 1]. Unknown NPC types start from zero.
func NPCReactionModifier(m PlayerMorality, npcType, npcAlignment string) float64 {
	modifier := 0.0
	if group, ok := npcTypeGroups[strings.ToLower(strings.TrimSpace(npcType))]; ok {
		score, _ := m.Reputation.Group(group)
		modifier = float64(score) / 100
	}

	// A blank NPC alignment shares nothing with the player.
	if m.Alignment.Matches(npcAlignment) {
		modifier += reactionSharedAlignment
	}
	if opposes(m.Alignment.Ethic(), npcEthic(npcAlignment)) {
		modifier += reactionOpposedEthic
	}

	switch {
	case m.InfamyLevel >= infamousLevel:
		modifier += reactionInfamous
	case m.InfamyLevel >= notoriousLevel:
		modifier += reactionNotorious
	}
	return clampFloat(modifier, -1, 1)
}

// npcEthic extracts the good/evil component of an NPC alignment token.
func npcEthic(token string) Ethic {
	token = strings.ToLower(strings.TrimSpace(token))
	if alignment := Alignment(token); alignment.Valid() {
		return alignment.Ethic()
	}
	switch Ethic(token) {
	case EthicGood, EthicEvil:
		return Ethic(token)
	}
	return EthicNeutral
}

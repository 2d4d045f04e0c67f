// Package compendium converts raw, loosely-structured compendium records
// into canonical bestiary templates. Every field parser tolerates missing or
// malformed input and degrades to a documented default; a record that cannot
// be converted at all is skipped without aborting the batch.
package compendium

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	"github.com/KirkDiggler/vtt-bestiary/internal/rules"
)

// IDPrefix is prepended to every template id derived from a record name
const IDPrefix = "monster_"

// Payload is the raw compendium shape accepted at load time. Records stay
// raw JSON so one malformed entry cannot fail the whole decode.
type Payload struct {
	Monsters map[string]json.RawMessage `json:"monsters"`
}

// SkippedRecord names a record the batch conversion dropped and why
type SkippedRecord struct {
	Name   string
	Reason string
}

// Converter maps raw records to templates
type Converter struct{}

// NewConverter creates a new converter
func NewConverter() *Converter {
	return &Converter{}
}

// ConvertAll converts every record in a payload, isolating per-record
// failures. Records are processed in name order so id collisions resolve
// deterministically.
func (c *Converter) ConvertAll(payload *Payload) ([]*entities.Template, []SkippedRecord) {
	if payload == nil || len(payload.Monsters) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(payload.Monsters))
	for name := range payload.Monsters {
		names = append(names, name)
	}
	sort.Strings(names)

	var templates []*entities.Template
	var skipped []SkippedRecord

	for _, name := range names {
		var raw map[string]any
		if err := json.Unmarshal(payload.Monsters[name], &raw); err != nil {
			log.Printf("compendium: skipping record %q: %v", name, err)
			skipped = append(skipped, SkippedRecord{Name: name, Reason: err.Error()})
			continue
		}

		template, err := c.Convert(name, raw)
		if err != nil {
			log.Printf("compendium: skipping record %q: %v", name, err)
			skipped = append(skipped, SkippedRecord{Name: name, Reason: err.Error()})
			continue
		}
		templates = append(templates, template)
	}

	return templates, skipped
}

// Convert maps one raw record to a template. The id is derived from the
// name, so two records sharing a name produce the same id.
func (c *Converter) Convert(name string, raw map[string]any) (*entities.Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("record has no name")
	}
	if raw == nil {
		return nil, fmt.Errorf("record %q has no body", name)
	}

	now := time.Now()

	creatureType, subtype := parseType(raw)
	cr := parseChallengeRating(raw)

	template := &entities.Template{
		ID:                  TemplateID(name),
		Name:                name,
		Type:                creatureType,
		Subtype:             subtype,
		Size:                parseSize(raw),
		Alignment:           parseAlignment(raw),
		ChallengeRating:     cr,
		ExperiencePoints:    rules.XPForChallengeRating(cr),
		ArmorClass:          parseArmorClass(raw),
		HitPoints:           parseHitPoints(raw),
		Speed:               parseSpeed(raw),
		AbilityScores:       parseAbilityScores(raw),
		SavingThrows:        parseSavingThrows(raw),
		Skills:              parseSkills(raw),
		Resistances:         parseResistances(raw),
		ConditionImmunities: parseConditionImmunities(raw),
		Senses:              parseSenses(raw),
		Languages:           parseLanguages(raw),
		ProficiencyBonus:    rules.ProficiencyBonusForChallengeRating(cr),
		Spellcasting:        parseSpellcasting(raw),
		Description:         parseDescription(raw),
		Source:              parseSource(raw),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	template.Abilities = parseAbilities(raw)
	template.Legendary = buildLegendaryBlock(raw, template.Abilities)
	template.Tags = buildTags(template)

	return template, nil
}

// TemplateID derives the deterministic id for a record name
func TemplateID(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "_")
	return IDPrefix + slug
}

// hitPointsPattern matches the "<avg> (<formula>)" statblock form
var hitPointsPattern = regexp.MustCompile(`^\s*(\d+)\s*\(\s*([^)]+?)\s*\)`)

// parseHitPoints tries "<avg> (<formula>)", then a bare number as the
// average with an unknown formula, then the documented default.
func parseHitPoints(raw map[string]any) entities.HitPoints {
	v, ok := field(raw, "hitpoints", "hp")
	if !ok {
		return entities.HitPoints{Average: 1, Formula: "1d4"}
	}

	if s, isString := asString(v); isString {
		if m := hitPointsPattern.FindStringSubmatch(s); m != nil {
			avg, err := strconv.Atoi(m[1])
			if err == nil {
				return entities.HitPoints{Average: avg, Formula: m[2]}
			}
		}
	}

	if avg, isInt := asInt(v); isInt && avg > 0 {
		return entities.HitPoints{Average: avg, Formula: "unknown"}
	}

	return entities.HitPoints{Average: 1, Formula: "1d4"}
}

// speedTokenPattern matches repeated "<type> <number> ft." tokens
var speedTokenPattern = regexp.MustCompile(`([a-zA-Z]+)?\s*(\d+)\s*ft\.?`)

// parseSpeed accepts a bare number (walking speed), a token string, or an
// object map. Falls back to a 30 ft. walking speed.
func parseSpeed(raw map[string]any) map[string]int {
	v, ok := field(raw, "speed", "speeds")
	if !ok {
		return map[string]int{"walk": 30}
	}

	switch value := v.(type) {
	case float64:
		return map[string]int{"walk": int(value)}
	case string:
		speeds := make(map[string]int)
		for _, m := range speedTokenPattern.FindAllStringSubmatch(value, -1) {
			distance, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			movement := strings.ToLower(strings.TrimSpace(m[1]))
			if movement == "" || movement == "speed" {
				movement = "walk"
			}
			speeds[movement] = distance
		}
		if len(speeds) > 0 {
			return speeds
		}
	case map[string]any:
		speeds := make(map[string]int)
		for key, item := range value {
			if distance, isInt := asInt(item); isInt {
				speeds[strings.ToLower(key)] = distance
			}
		}
		if len(speeds) > 0 {
			return speeds
		}
	}

	return map[string]int{"walk": 30}
}

// parseAbilityScores reads the six scores, defaulting each to 10
func parseAbilityScores(raw map[string]any) entities.AbilityScores {
	score := func(names ...string) int {
		if v, ok := field(raw, names...); ok {
			if n, isInt := asInt(v); isInt {
				return n
			}
		}
		return 10
	}

	return entities.AbilityScores{
		Strength:     score("strength", "str"),
		Dexterity:    score("dexterity", "dex"),
		Constitution: score("constitution", "con"),
		Intelligence: score("intelligence", "int"),
		Wisdom:       score("wisdom", "wis"),
		Charisma:     score("charisma", "cha"),
	}
}

// parseSavingThrows matches object keys case-insensitively against the
// first three characters of each ability name; unmatched keys are dropped.
func parseSavingThrows(raw map[string]any) map[string]int {
	v, ok := field(raw, "savingthrows", "saves")
	if !ok {
		return nil
	}
	obj, ok := asMap(v)
	if !ok {
		return nil
	}

	saves := make(map[string]int)
	for key, item := range obj {
		bonus, isInt := asInt(item)
		if !isInt {
			continue
		}
		prefix := strings.ToLower(key)
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		for _, ability := range entities.AbilityNames {
			if strings.HasPrefix(ability, prefix) {
				saves[ability] = bonus
				break
			}
		}
	}

	if len(saves) == 0 {
		return nil
	}
	return saves
}

// parseSkills reads a skill-name -> bonus map. Conversion always asserts
// proficiency and never expertise; no source carries an expertise signal.
func parseSkills(raw map[string]any) []entities.SkillEntry {
	v, ok := field(raw, "skills")
	if !ok {
		return nil
	}
	obj, ok := asMap(v)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	var skills []entities.SkillEntry
	for _, name := range names {
		bonus, isInt := asInt(obj[name])
		if !isInt {
			continue
		}
		skills = append(skills, entities.SkillEntry{
			Skill:      strings.ReplaceAll(strings.ToLower(name), "_", " "),
			Bonus:      bonus,
			Proficient: true,
			Expertise:  false,
		})
	}
	return skills
}

// parseResistances merges the three damage-interaction inputs into one list
// keyed by damage type. The flags accumulate: a type listed as both
// resistant and immune keeps both flags set.
func parseResistances(raw map[string]any) []entities.ResistanceEntry {
	merged := make(map[string]*entities.ResistanceEntry)
	var order []string

	mark := func(names []string, set func(*entities.ResistanceEntry)) {
		v, ok := field(raw, names...)
		if !ok {
			return
		}
		for _, damageType := range asStringList(v) {
			key := strings.ToLower(damageType)
			entry, exists := merged[key]
			if !exists {
				entry = &entities.ResistanceEntry{DamageType: key}
				merged[key] = entry
				order = append(order, key)
			}
			set(entry)
		}
	}

	mark([]string{"damageresistances", "resistances"}, func(e *entities.ResistanceEntry) { e.Resistant = true })
	mark([]string{"damageimmunities", "immunities"}, func(e *entities.ResistanceEntry) { e.Immune = true })
	mark([]string{"damagevulnerabilities", "vulnerabilities"}, func(e *entities.ResistanceEntry) { e.Vulnerable = true })

	if len(order) == 0 {
		return nil
	}
	out := make([]entities.ResistanceEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

// parseConditionImmunities reads a single value or list of condition names
func parseConditionImmunities(raw map[string]any) []string {
	v, ok := field(raw, "conditionimmunities")
	if !ok {
		return nil
	}
	return asStringList(v)
}

// parseSenses accepts a "<type> <number> ft." token string or an object map
func parseSenses(raw map[string]any) []entities.SenseEntry {
	v, ok := field(raw, "senses")
	if !ok {
		return nil
	}

	switch value := v.(type) {
	case string:
		var senses []entities.SenseEntry
		for _, m := range speedTokenPattern.FindAllStringSubmatch(value, -1) {
			distance, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			senseType := strings.ToLower(strings.TrimSpace(m[1]))
			if senseType == "" {
				continue
			}
			senses = append(senses, entities.SenseEntry{Type: senseType, Range: distance})
		}
		return senses
	case map[string]any:
		names := make([]string, 0, len(value))
		for name := range value {
			names = append(names, name)
		}
		sort.Strings(names)

		var senses []entities.SenseEntry
		for _, name := range names {
			if distance, isInt := asInt(value[name]); isInt {
				senses = append(senses, entities.SenseEntry{
					Type:  strings.ToLower(name),
					Range: distance,
				})
			}
		}
		return senses
	}

	return nil
}

// parseLanguages reads a single value or list of languages
func parseLanguages(raw map[string]any) []string {
	v, ok := field(raw, "languages")
	if !ok {
		return nil
	}
	return asStringList(v)
}

// parseSpellcasting builds a spellcasting block when the record carries
// one, filling explicit defaults for absent sub-fields.
func parseSpellcasting(raw map[string]any) *entities.Spellcasting {
	v, ok := field(raw, "spellcasting")
	if !ok {
		return nil
	}
	obj, ok := asMap(v)
	if !ok {
		return nil
	}

	block := &entities.Spellcasting{
		Level:       1,
		Ability:     "intelligence",
		SaveDC:      13,
		AttackBonus: 5,
	}

	if level, isInt := lookupInt(obj, "level", "casterlevel"); isInt {
		block.Level = level
	}
	if ability, isString := lookupString(obj, "ability", "spellcastingability"); isString {
		block.Ability = strings.ToLower(ability)
	}
	if dc, isInt := lookupInt(obj, "savedc", "dc"); isInt {
		block.SaveDC = dc
	}
	if bonus, isInt := lookupInt(obj, "attackbonus", "spellattack"); isInt {
		block.AttackBonus = bonus
	}

	if v, found := field(obj, "spells"); found {
		if spells, isMap := asMap(v); isMap {
			block.Spells = make(map[string][]string, len(spells))
			for level, list := range spells {
				block.Spells[strings.ToLower(level)] = asStringList(list)
			}
		}
	}
	if v, found := field(obj, "slots"); found {
		if slots, isMap := asMap(v); isMap {
			block.Slots = make(map[int]int, len(slots))
			for level, count := range slots {
				l, err := strconv.Atoi(strings.TrimSpace(level))
				if err != nil {
					continue
				}
				if n, isInt := asInt(count); isInt {
					block.Slots[l] = n
				}
			}
		}
	}

	return block
}

// parseAbilities converts the two raw categories that map to ability
// entries: "actions" and "legendary_actions". The other entry types exist in
// the model but no compendium source populates them.
func parseAbilities(raw map[string]any) []*entities.AbilityEntry {
	var abilities []*entities.AbilityEntry
	abilities = append(abilities, parseAbilityList(raw, entities.AbilityTypeAction, "actions")...)
	abilities = append(abilities, parseAbilityList(raw, entities.AbilityTypeLegendaryAction, "legendaryactions")...)
	return abilities
}

func parseAbilityList(raw map[string]any, entryType entities.AbilityEntryType, key string) []*entities.AbilityEntry {
	v, ok := field(raw, key)
	if !ok {
		return nil
	}
	list, ok := asList(v)
	if !ok {
		return nil
	}

	var abilities []*entities.AbilityEntry
	for i, item := range list {
		obj, isMap := asMap(item)
		if !isMap {
			continue
		}

		name, _ := lookupString(obj, "name")
		if name == "" {
			name = fmt.Sprintf("%s %d", entryType, i+1)
		}

		entry := &entities.AbilityEntry{
			ID:   fmt.Sprintf("%s_%d", TemplateID(name), i),
			Name: name,
			Type: entryType,
		}

		if desc, isString := lookupString(obj, "desc", "description"); isString {
			entry.Description = desc
		}
		if recharge, isString := lookupString(obj, "recharge"); isString {
			entry.Recharge = recharge
		}
		if bonus, isInt := lookupInt(obj, "attackbonus"); isInt {
			entry.AttackBonus = &bonus
		}
		if dc, isInt := lookupInt(obj, "savedc", "dc"); isInt {
			entry.SaveDC = &dc
		}
		if ability, isString := lookupString(obj, "saveability"); isString {
			entry.SaveAbility = strings.ToLower(ability)
		}
		if rng, isString := lookupString(obj, "range"); isString {
			entry.Range = rng
		}

		if dice, isString := lookupString(obj, "damagedice", "damage"); isString && dice != "" {
			entry.Damage = &entities.Damage{Dice: dice}
			if damageType, ok := lookupString(obj, "damagetype"); ok {
				entry.Damage.Type = strings.ToLower(damageType)
			}
			if bonus, ok := lookupInt(obj, "damagebonus"); ok {
				entry.Damage.Bonus = bonus
			}
		}

		abilities = append(abilities, entry)
	}
	return abilities
}

// buildLegendaryBlock collects the legendary entries into a block with the
// standard three actions per round.
func buildLegendaryBlock(raw map[string]any, abilities []*entities.AbilityEntry) *entities.LegendaryBlock {
	var legendary []*entities.AbilityEntry
	for _, entry := range abilities {
		if entry.Type == entities.AbilityTypeLegendaryAction {
			legendary = append(legendary, entry)
		}
	}
	if len(legendary) == 0 {
		return nil
	}

	block := &entities.LegendaryBlock{
		ActionsPerRound: 3,
		Actions:         legendary,
	}
	if v, ok := field(raw, "legendaryactionsperround"); ok {
		if n, isInt := asInt(v); isInt && n > 0 {
			block.ActionsPerRound = n
		}
	}
	return block
}

// parseType splits a parenthetical subtype off the type string when no
// explicit subtype field exists, e.g. "humanoid (goblinoid)".
func parseType(raw map[string]any) (creatureType, subtype string) {
	creatureType = "unknown"
	if v, ok := field(raw, "type", "creaturetype"); ok {
		if s, isString := asString(v); isString && strings.TrimSpace(s) != "" {
			creatureType = strings.ToLower(strings.TrimSpace(s))
		}
	}
	if v, ok := field(raw, "subtype"); ok {
		if s, isString := asString(v); isString {
			subtype = strings.ToLower(strings.TrimSpace(s))
		}
	}

	if open := strings.Index(creatureType, "("); open >= 0 {
		if end := strings.Index(creatureType[open:], ")"); end > 0 {
			if subtype == "" {
				subtype = strings.TrimSpace(creatureType[open+1 : open+end])
			}
			creatureType = strings.TrimSpace(creatureType[:open])
		}
	}
	return creatureType, subtype
}

func parseSize(raw map[string]any) entities.Size {
	v, ok := field(raw, "size")
	if !ok {
		return entities.SizeMedium
	}
	s, isString := asString(v)
	if !isString || strings.TrimSpace(s) == "" {
		return entities.SizeMedium
	}

	s = strings.ToLower(strings.TrimSpace(s))
	return entities.Size(strings.ToUpper(s[:1]) + s[1:])
}

func parseAlignment(raw map[string]any) string {
	if v, ok := field(raw, "alignment"); ok {
		if s, isString := asString(v); isString {
			return strings.ToLower(strings.TrimSpace(s))
		}
	}
	return ""
}

func parseArmorClass(raw map[string]any) int {
	if v, ok := field(raw, "armorclass", "ac"); ok {
		if ac, isInt := asInt(v); isInt {
			return ac
		}
	}
	return 10
}

// parseChallengeRating keeps the string form, converting the common numeric
// fractions back to their statblock spelling.
func parseChallengeRating(raw map[string]any) string {
	v, ok := field(raw, "challengerating", "challenge", "cr")
	if !ok {
		return "0"
	}

	if s, isString := v.(string); isString {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return "0"
	}

	if n, isNum := v.(float64); isNum {
		switch n {
		case 0.125:
			return "1/8"
		case 0.25:
			return "1/4"
		case 0.5:
			return "1/2"
		}
		if n == float64(int(n)) {
			return strconv.Itoa(int(n))
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return "0"
}

func parseDescription(raw map[string]any) string {
	if v, ok := field(raw, "description", "desc"); ok {
		if s, isString := asString(v); isString {
			return s
		}
	}
	return ""
}

func parseSource(raw map[string]any) string {
	if v, ok := field(raw, "source"); ok {
		if s, isString := asString(v); isString && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return "compendium"
}

// buildTags derives the search tags: type, size, a normalized CR tag, and
// presence markers for spellcasting, legendary actions and each damage
// interaction category.
func buildTags(t *entities.Template) []string {
	tags := []string{
		strings.ToLower(t.Type),
		strings.ToLower(string(t.Size)),
		"CR " + t.ChallengeRating,
	}

	if t.Spellcasting != nil {
		tags = append(tags, "spellcaster")
	}
	if t.Legendary != nil {
		tags = append(tags, "legendary")
	}

	var resistant, immune, vulnerable bool
	for _, entry := range t.Resistances {
		resistant = resistant || entry.Resistant
		immune = immune || entry.Immune
		vulnerable = vulnerable || entry.Vulnerable
	}
	if resistant {
		tags = append(tags, "resistant")
	}
	if immune {
		tags = append(tags, "immune")
	}
	if vulnerable {
		tags = append(tags, "vulnerable")
	}

	return tags
}

// lookupInt reads an integer field from an object by normalized key
func lookupInt(obj map[string]any, names ...string) (int, bool) {
	if v, ok := field(obj, names...); ok {
		return asInt(v)
	}
	return 0, false
}

// lookupString reads a string field from an object by normalized key
func lookupString(obj map[string]any, names ...string) (string, bool) {
	if v, ok := field(obj, names...); ok {
		return asString(v)
	}
	return "", false
}

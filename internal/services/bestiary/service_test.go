package bestiary_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/vtt-bestiary/internal/compendium"
	"github.com/KirkDiggler/vtt-bestiary/internal/dice"
	mockdice "github.com/KirkDiggler/vtt-bestiary/internal/dice/mock"
	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
	"github.com/KirkDiggler/vtt-bestiary/internal/events"
	"github.com/KirkDiggler/vtt-bestiary/internal/search"
	"github.com/KirkDiggler/vtt-bestiary/internal/services/bestiary"
	"github.com/KirkDiggler/vtt-bestiary/internal/testutils"
)

// capturingListener records every event it receives
type capturingListener struct {
	events []events.Event
}

func (l *capturingListener) HandleEvent(event events.Event) error {
	l.events = append(l.events, event)
	return nil
}

func (l *capturingListener) Priority() int { return 0 }
func (l *capturingListener) ID() string    { return "capture" }

func subscribeAll(bus *events.Bus, listener events.EventListener) {
	for _, eventType := range []events.EventType{
		events.EventCompendiumLoaded,
		events.EventCompendiumLoadFailed,
		events.EventTemplateCreated,
		events.EventTemplateUpdated,
		events.EventTemplateDeleted,
		events.EventInstanceCreated,
		events.EventInstanceUpdated,
		events.EventInstanceDeleted,
		events.EventDataImported,
	} {
		bus.Subscribe(eventType, listener)
	}
}

func goblinPayload() *compendium.Payload {
	return &compendium.Payload{
		Monsters: map[string]json.RawMessage{
			"Goblin": json.RawMessage(`{
				"hit_points": "7 (2d6)",
				"armor_class": 15,
				"challenge_rating": "1/4",
				"type": "humanoid",
				"size": "Small",
				"strength": 8,
				"dexterity": 14
			}`),
			"Owlbear": json.RawMessage(`{
				"hit_points": "59 (7d10 + 21)",
				"armor_class": 13,
				"challenge_rating": "3",
				"type": "monstrosity",
				"size": "Large"
			}`),
		},
	}
}

func TestService_LoadCompendium(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and indexes", func(t *testing.T) {
		bus := events.NewBus()
		listener := &capturingListener{}
		subscribeAll(bus, listener)

		svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

		loaded, err := svc.LoadCompendium(ctx, goblinPayload())
		require.NoError(t, err)
		assert.Equal(t, 2, loaded)

		template, err := svc.GetTemplate(ctx, "monster_goblin")
		require.NoError(t, err)
		assert.Equal(t, "Goblin", template.Name)
		assert.Equal(t, 50, template.ExperiencePoints)
		assert.Equal(t, 2, template.ProficiencyBonus)

		results, err := svc.SearchMonsters(ctx, "goblin", nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "monster_goblin", results[0].ID)

		require.Len(t, listener.events, 1)
		loadedEvent, ok := listener.events[0].(*events.CompendiumLoadedEvent)
		require.True(t, ok)
		assert.Equal(t, 2, loadedEvent.Loaded)
		assert.Zero(t, loadedEvent.Skipped)
	})

	t.Run("skips malformed records", func(t *testing.T) {
		bus := events.NewBus()
		listener := &capturingListener{}
		subscribeAll(bus, listener)

		svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

		payload := goblinPayload()
		payload.Monsters["Broken"] = json.RawMessage(`[1, 2, 3]`)

		loaded, err := svc.LoadCompendium(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded)

		loadedEvent := listener.events[0].(*events.CompendiumLoadedEvent)
		assert.Equal(t, 1, loadedEvent.Skipped)
	})

	t.Run("nil payload fails the load", func(t *testing.T) {
		bus := events.NewBus()
		listener := &capturingListener{}
		subscribeAll(bus, listener)

		svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

		loaded, err := svc.LoadCompendium(ctx, nil)
		require.Error(t, err)
		assert.Zero(t, loaded)
		assert.True(t, corerr.IsInvalidArgument(err))

		require.Len(t, listener.events, 1)
		_, ok := listener.events[0].(*events.CompendiumLoadFailedEvent)
		assert.True(t, ok)
	})

	t.Run("same name overwrites on reload", func(t *testing.T) {
		svc := bestiary.NewService(nil)

		_, err := svc.LoadCompendium(ctx, goblinPayload())
		require.NoError(t, err)

		payload := &compendium.Payload{
			Monsters: map[string]json.RawMessage{
				"Goblin": json.RawMessage(`{"armor_class": 18, "challenge_rating": "1/4"}`),
			},
		}
		_, err = svc.LoadCompendium(ctx, payload)
		require.NoError(t, err)

		template, err := svc.GetTemplate(ctx, "monster_goblin")
		require.NoError(t, err)
		assert.Equal(t, 18, template.ArmorClass)

		all, err := svc.GetAllTemplates(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestService_CreateTemplate(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	input := testutils.CreateTestTemplate("ignored", "Hobgoblin Warlord")
	input.ChallengeRating = "6"
	input.ExperiencePoints = 99999 // caller-supplied values are ignored
	input.ProficiencyBonus = 99

	created, err := svc.CreateTemplate(ctx, input)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ID, "custom_"), "id was %s", created.ID)
	assert.Equal(t, 2300, created.ExperiencePoints)
	assert.Equal(t, 3, created.ProficiencyBonus)
	assert.False(t, created.CreatedAt.IsZero())

	// input is not mutated
	assert.Equal(t, "ignored", input.ID)

	// stored and searchable
	stored, err := svc.GetTemplate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hobgoblin Warlord", stored.Name)

	results, err := svc.SearchMonsters(ctx, "warlord", nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	require.Len(t, listener.events, 1)
	createdEvent, ok := listener.events[0].(*events.TemplateCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, created.ID, createdEvent.Template.ID)

	t.Run("nil template", func(t *testing.T) {
		_, err := svc.CreateTemplate(ctx, nil)
		assert.True(t, corerr.IsInvalidArgument(err))
	})
}

func TestService_UpdateTemplate(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	created, err := svc.CreateTemplate(ctx, testutils.CreateTestTemplate("", "Goblin"))
	require.NoError(t, err)

	t.Run("merges and recomputes derived stats", func(t *testing.T) {
		newCR := "2"
		newAC := 17
		updated, err := svc.UpdateTemplate(ctx, created.ID, &entities.TemplateUpdate{
			ChallengeRating: &newCR,
			ArmorClass:      &newAC,
		})
		require.NoError(t, err)

		assert.Equal(t, "2", updated.ChallengeRating)
		assert.Equal(t, 17, updated.ArmorClass)
		assert.Equal(t, 450, updated.ExperiencePoints)
		assert.Equal(t, 2, updated.ProficiencyBonus)
		// untouched fields survive
		assert.Equal(t, "Goblin", updated.Name)

		var updateEvents int
		for _, event := range listener.events {
			if _, ok := event.(*events.TemplateUpdatedEvent); ok {
				updateEvents++
			}
		}
		assert.Equal(t, 1, updateEvents)
	})

	t.Run("index reflects the update", func(t *testing.T) {
		results, err := svc.SearchMonsters(ctx, "cr2", nil)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("unknown id mutates nothing", func(t *testing.T) {
		name := "Renamed"
		_, err := svc.UpdateTemplate(ctx, "monster_missing", &entities.TemplateUpdate{Name: &name})
		assert.True(t, corerr.IsNotFound(err))
	})

	t.Run("nil update returns the existing template", func(t *testing.T) {
		existing, err := svc.UpdateTemplate(ctx, created.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, existing.ID)
	})
}

func TestService_DeleteTemplate(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	created, err := svc.CreateTemplate(ctx, testutils.CreateTestTemplate("", "Goblin"))
	require.NoError(t, err)

	instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{TemplateID: created.ID})
	require.NotNil(t, instance)

	t.Run("refuses while instances reference it", func(t *testing.T) {
		assert.False(t, svc.DeleteTemplate(ctx, created.ID))

		// template still present, no deletion event
		_, err := svc.GetTemplate(ctx, created.ID)
		assert.NoError(t, err)
		for _, event := range listener.events {
			_, ok := event.(*events.TemplateDeletedEvent)
			assert.False(t, ok)
		}
	})

	t.Run("succeeds once the instances are gone", func(t *testing.T) {
		require.True(t, svc.DeleteInstance(ctx, instance.ID))
		assert.True(t, svc.DeleteTemplate(ctx, created.ID))

		_, err := svc.GetTemplate(ctx, created.ID)
		assert.True(t, corerr.IsNotFound(err))

		results, err := svc.SearchMonsters(ctx, "goblin", nil)
		require.NoError(t, err)
		assert.Empty(t, results)

		var deleted *events.TemplateDeletedEvent
		for _, event := range listener.events {
			if e, ok := event.(*events.TemplateDeletedEvent); ok {
				deleted = e
			}
		}
		require.NotNil(t, deleted)
		assert.Equal(t, created.ID, deleted.TemplateID)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.False(t, svc.DeleteTemplate(ctx, "monster_missing"))
	})
}

func TestService_CreateInstance(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	created, err := svc.CreateTemplate(ctx, testutils.CreateTestTemplate("", "Goblin"))
	require.NoError(t, err)

	t.Run("spawns with average hit points", func(t *testing.T) {
		instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{
			TemplateID:  created.ID,
			DisplayName: "Grizzle",
			Position:    &entities.Position{X: 3, Y: 4, TableID: "table-1"},
		})
		require.NotNil(t, instance)

		assert.True(t, strings.HasPrefix(instance.ID, "instance_"))
		assert.Equal(t, created.ID, instance.TemplateID)
		assert.Equal(t, 7, instance.CurrentHP)
		assert.Equal(t, 7, instance.MaxHP)
		assert.Zero(t, instance.TempHP)
		assert.Equal(t, "Grizzle", instance.DisplayName)
		assert.NotNil(t, instance.Conditions)
		assert.Empty(t, instance.Conditions)
		assert.True(t, instance.Visible)
		assert.False(t, instance.Defeated)

		// the denormalized template is a copy
		require.NotNil(t, instance.Template)
		assert.NotSame(t, created, instance.Template)
		assert.Equal(t, created.ID, instance.Template.ID)

		var createdEvent *events.InstanceCreatedEvent
		for _, event := range listener.events {
			if e, ok := event.(*events.InstanceCreatedEvent); ok {
				createdEvent = e
			}
		}
		require.NotNil(t, createdEvent)
		assert.Equal(t, instance.ID, createdEvent.Instance.ID)
	})

	t.Run("unknown template returns nil and stores nothing", func(t *testing.T) {
		before, err := svc.GetAllInstances(ctx)
		require.NoError(t, err)

		instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{TemplateID: "monster_missing"})
		assert.Nil(t, instance)

		after, err := svc.GetAllInstances(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("nil input", func(t *testing.T) {
		assert.Nil(t, svc.CreateInstance(ctx, nil))
	})
}

func TestService_UpdateInstance(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	created, err := svc.CreateTemplate(ctx, testutils.CreateTestTemplate("", "Goblin"))
	require.NoError(t, err)
	instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{TemplateID: created.ID})
	require.NotNil(t, instance)

	t.Run("merges the delta", func(t *testing.T) {
		hp := 2
		defeated := false
		update := &entities.InstanceUpdate{
			CurrentHP:  &hp,
			Defeated:   &defeated,
			Conditions: []string{"poisoned", "poisoned"},
		}

		updated, err := svc.UpdateInstance(ctx, instance.ID, update)
		require.NoError(t, err)

		assert.Equal(t, 2, updated.CurrentHP)
		// duplicate condition entries are preserved as given
		assert.Equal(t, []string{"poisoned", "poisoned"}, updated.Conditions)
		assert.Equal(t, instance.MaxHP, updated.MaxHP)

		var updatedEvent *events.InstanceUpdatedEvent
		for _, event := range listener.events {
			if e, ok := event.(*events.InstanceUpdatedEvent); ok {
				updatedEvent = e
			}
		}
		require.NotNil(t, updatedEvent)
		assert.Equal(t, update, updatedEvent.Delta)
		assert.Equal(t, 2, updatedEvent.Instance.CurrentHP)
	})

	t.Run("unknown id", func(t *testing.T) {
		hp := 1
		_, err := svc.UpdateInstance(ctx, "instance_missing", &entities.InstanceUpdate{CurrentHP: &hp})
		assert.True(t, corerr.IsNotFound(err))
	})
}

func TestService_DeleteInstance(t *testing.T) {
	ctx := context.Background()
	svc := bestiary.NewService(nil)

	created, err := svc.CreateTemplate(ctx, testutils.CreateTestTemplate("", "Goblin"))
	require.NoError(t, err)
	instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{TemplateID: created.ID})
	require.NotNil(t, instance)

	assert.True(t, svc.DeleteInstance(ctx, instance.ID))
	assert.False(t, svc.DeleteInstance(ctx, instance.ID))

	_, err = svc.GetInstance(ctx, instance.ID)
	assert.True(t, corerr.IsNotFound(err))
}

func TestService_RollHitPoints(t *testing.T) {
	t.Run("rolls the formula", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roller := mockdice.NewMockRoller(ctrl)
		roller.EXPECT().Roll(2, 6, 0).Return(&dice.RollResult{Total: 9}, nil)

		svc := bestiary.NewService(&bestiary.ServiceConfig{Roller: roller})

		template := testutils.CreateTestTemplate("monster_goblin", "Goblin")
		assert.Equal(t, 9, svc.RollHitPoints(template))
	})

	t.Run("floors at one", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roller := mockdice.NewMockRoller(ctrl)
		roller.EXPECT().Roll(2, 6, 0).Return(&dice.RollResult{Total: -3}, nil)

		svc := bestiary.NewService(&bestiary.ServiceConfig{Roller: roller})

		template := testutils.CreateTestTemplate("monster_goblin", "Goblin")
		assert.Equal(t, 1, svc.RollHitPoints(template))
	})

	t.Run("unparsable formula falls back to the average", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roller := mockdice.NewMockRoller(ctrl) // no Roll expected

		svc := bestiary.NewService(&bestiary.ServiceConfig{Roller: roller})

		template := testutils.CreateTestTemplate("monster_goblin", "Goblin")
		template.HitPoints.Formula = "unknown"
		assert.Equal(t, 7, svc.RollHitPoints(template))
	})

	t.Run("roller failure falls back to the average", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roller := mockdice.NewMockRoller(ctrl)
		roller.EXPECT().Roll(2, 6, 0).Return(nil, errors.New("bad dice"))

		svc := bestiary.NewService(&bestiary.ServiceConfig{Roller: roller})

		template := testutils.CreateTestTemplate("monster_goblin", "Goblin")
		assert.Equal(t, 7, svc.RollHitPoints(template))
	})

	t.Run("nil template", func(t *testing.T) {
		svc := bestiary.NewService(nil)
		assert.Equal(t, 1, svc.RollHitPoints(nil))
	})
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	listener := &capturingListener{}
	subscribeAll(bus, listener)

	svc := bestiary.NewService(&bestiary.ServiceConfig{EventBus: bus})

	_, err := svc.LoadCompendium(ctx, goblinPayload())
	require.NoError(t, err)

	instance := svc.CreateInstance(ctx, &bestiary.CreateInstanceInput{TemplateID: "monster_goblin"})
	require.NotNil(t, instance)

	snapshot, err := svc.ExportData(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Templates, 2)
	assert.Len(t, snapshot.Instances, 1)

	t.Run("export is detached from live state", func(t *testing.T) {
		stored, err := svc.GetTemplate(ctx, "monster_goblin")
		require.NoError(t, err)
		for _, exported := range snapshot.Templates {
			assert.NotSame(t, stored, exported)
		}
	})

	require.NoError(t, svc.Reset(ctx))

	all, err := svc.GetAllTemplates(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	results, err := svc.SearchMonsters(ctx, "", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NoError(t, svc.ImportData(ctx, snapshot))

	restored, err := svc.ExportData(ctx)
	require.NoError(t, err)
	assert.Len(t, restored.Templates, 2)
	assert.Len(t, restored.Instances, 1)

	results, err = svc.SearchMonsters(ctx, "goblin", nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	var imported *events.DataImportedEvent
	for _, event := range listener.events {
		if e, ok := event.(*events.DataImportedEvent); ok {
			imported = e
		}
	}
	require.NotNil(t, imported)
	assert.Equal(t, 2, imported.Templates)
	assert.Equal(t, 1, imported.Instances)
}

func TestService_ImportData(t *testing.T) {
	ctx := context.Background()

	t.Run("merges by id", func(t *testing.T) {
		svc := bestiary.NewService(nil)

		_, err := svc.LoadCompendium(ctx, goblinPayload())
		require.NoError(t, err)

		replacement := testutils.CreateTestTemplate("monster_goblin", "Goblin Rework")
		require.NoError(t, svc.ImportData(ctx, &entities.Snapshot{
			Templates: []*entities.Template{replacement},
		}))

		stored, err := svc.GetTemplate(ctx, "monster_goblin")
		require.NoError(t, err)
		assert.Equal(t, "Goblin Rework", stored.Name)

		// the untouched template survives the merge
		_, err = svc.GetTemplate(ctx, "monster_owlbear")
		assert.NoError(t, err)
	})

	t.Run("instances are not validated against templates", func(t *testing.T) {
		svc := bestiary.NewService(nil)

		orphan := testutils.CreateTestInstance("instance_orphan",
			testutils.CreateTestTemplate("monster_ghost", "Ghost"))
		require.NoError(t, svc.ImportData(ctx, &entities.Snapshot{
			Instances: []*entities.Instance{orphan},
		}))

		stored, err := svc.GetInstance(ctx, "instance_orphan")
		require.NoError(t, err)
		assert.Equal(t, "monster_ghost", stored.TemplateID)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		svc := bestiary.NewService(nil)
		assert.True(t, corerr.IsInvalidArgument(svc.ImportData(ctx, nil)))
	})
}

func TestService_SearchMonsters_Filters(t *testing.T) {
	ctx := context.Background()
	svc := bestiary.NewService(nil)

	_, err := svc.LoadCompendium(ctx, goblinPayload())
	require.NoError(t, err)

	results, err := svc.SearchMonsters(ctx, "", &search.Filters{
		ChallengeRating: &search.CRRange{Min: 1, Max: 5},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "monster_owlbear", results[0].ID)
}

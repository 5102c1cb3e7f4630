package gm

import (
	"context"
	"fmt"
	"strings"

	"nexus-gm/internal/character"
)

// GrantCypher gives the user's character a cypher. Holding more than
// character.MaxCyphers evicts the oldest. Returns the cyphers now held.
func (e *Engine) GrantCypher(ctx context.Context, id, user string, cy character.Cypher) ([]character.Cypher, error) {
	cy.Name = strings.TrimSpace(cy.Name)
	if cy.Name == "" {
		return nil, ErrMissingField
	}
	if _, err := e.member(id, user); err != nil {
		return nil, err
	}
	var held []character.Cypher
	err := e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		c.AddCypher(cy)
		held = append([]character.Cypher(nil), c.Cyphers...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.store.AddEvent(id, "cypher", fmt.Sprintf("Found cypher: %s", cy.Name), map[string]any{
		"user_id": user,
		"cypher":  cy.Name,
		"level":   max(1, cy.Level),
	}); err != nil {
		return nil, err
	}
	return held, nil
}

// UseCypher spends the first unused cypher matching name.
func (e *Engine) UseCypher(ctx context.Context, id, user, name string) (character.Cypher, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return character.Cypher{}, ErrMissingField
	}
	if _, err := e.activeMember(id, user); err != nil {
		return character.Cypher{}, err
	}
	var used character.Cypher
	err := e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		cy, ok := c.UseCypher(name)
		if !ok {
			return ErrCypherUnavailable
		}
		used = cy
		return nil
	})
	if err != nil {
		return character.Cypher{}, err
	}
	if _, err := e.store.AddEvent(id, "cypher_used", fmt.Sprintf("Used cypher: %s", used.Name), map[string]any{
		"user_id": user,
		"cypher":  used.Name,
		"level":   used.Level,
	}); err != nil {
		return character.Cypher{}, err
	}
	return used, nil
}

// GrantItem adds an item to the user's inventory and returns the inventory.
func (e *Engine) GrantItem(ctx context.Context, id, user, item string) ([]string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, ErrMissingField
	}
	if _, err := e.member(id, user); err != nil {
		return nil, err
	}
	var inventory []string
	err := e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		c.AddItem(item)
		inventory = append([]string(nil), c.Inventory...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := e.store.AddEvent(id, "item", fmt.Sprintf("Gained item: %s", item), map[string]any{
		"user_id": user,
		"item":    item,
	}); err != nil {
		return nil, err
	}
	return inventory, nil
}

package sveve

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// GroupMember is an entry in a recipient group.
type GroupMember struct {
	PhoneNumber string
	Name        string
}

// GroupClient manages a single recipient group. The group lives on the
// API account; the client holds no local state beyond the name.
//
// Mutations that require the group to exist are self-healing: if the API
// reports that the destination group is missing, the group is created and
// the command is resent exactly once.
type GroupClient struct {
	client *Client
	name   string
}

// Name returns the group name.
func (g *GroupClient) Name() string {
	return g.name
}

// Create creates the group. Does nothing if the group already exists.
func (g *GroupClient) Create(ctx context.Context) error {
	_, err := g.send(ctx, "add_group", map[string]string{"group": g.name})
	return err
}

// Delete deletes the group. Does nothing if the group does not exist.
func (g *GroupClient) Delete(ctx context.Context) error {
	_, err := g.send(ctx, "delete_group", map[string]string{"group": g.name})
	return err
}

// Exists reports whether the group exists on the account.
//
// The API has no dedicated existence command, so this probes by removing
// a member that cannot exist and inspecting the reply for the
// missing-group sentinel. The probe has no observable side effect.
func (g *GroupClient) Exists(ctx context.Context) (bool, error) {
	probe := uuid.NewString()
	reply, err := g.send(ctx, "delete_recipient", map[string]string{"group": g.name, "number": probe})
	if err != nil {
		return false, err
	}
	return !isMissingGroup(reply, g.name), nil
}

// Members lists the members of the group. Returns empty if the group
// does not exist.
func (g *GroupClient) Members(ctx context.Context) ([]GroupMember, error) {
	lines, err := g.client.commandLines(ctx, groupEndpoint, "list_recipients", map[string]string{"group": g.name})
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 && isMissingGroup(lines[0], g.name) {
		return []GroupMember{}, nil
	}

	members := make([]GroupMember, 0, len(lines))
	for _, line := range lines {
		// Lines are formatted "name;number" or just "number".
		parts := strings.SplitN(line, ";", 2)
		if len(parts) == 2 {
			members = append(members, GroupMember{Name: parts[0], PhoneNumber: parts[1]})
			continue
		}
		members = append(members, GroupMember{PhoneNumber: parts[0]})
	}

	return members, nil
}

// HasMember reports whether the group contains the phone number. Numbers
// compare by normalized form.
func (g *GroupClient) HasMember(ctx context.Context, phoneNumber string) (bool, error) {
	wanted, err := ParseRecipient(phoneNumber)
	if err != nil {
		return false, err
	}

	members, err := g.Members(ctx)
	if err != nil {
		return false, err
	}

	for _, member := range members {
		recipient, err := ParseRecipient(member.PhoneNumber)
		if err != nil {
			continue
		}
		if recipient.Equal(wanted) {
			return true, nil
		}
	}

	return false, nil
}

// AddMember adds a member to the group. The display name is optional.
// If the group does not exist, it is created first.
func (g *GroupClient) AddMember(ctx context.Context, phoneNumber, displayName string) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return newValidationError("phone number is required")
	}
	params := map[string]string{"group": g.name, "name": displayName, "number": phoneNumber}
	return g.sendRequiringGroup(ctx, "add_recipient", params, g.name)
}

// RemoveMember removes a member from the group. Does nothing if the
// group or member does not exist.
func (g *GroupClient) RemoveMember(ctx context.Context, phoneNumber string) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return newValidationError("phone number is required")
	}
	_, err := g.send(ctx, "delete_recipient", map[string]string{"group": g.name, "number": phoneNumber})
	return err
}

// MoveAllTo moves every member of this group into the destination group.
// The destination is created if it does not exist; this group is empty
// afterwards.
func (g *GroupClient) MoveAllTo(ctx context.Context, destination string) error {
	if strings.TrimSpace(destination) == "" {
		return newValidationError("destination group is required")
	}
	params := map[string]string{"group": g.name, "new_group": destination}
	return g.sendRequiringGroup(ctx, "move_group", params, destination)
}

// MoveMemberTo moves a single member into the destination group. The
// destination is created if it does not exist.
func (g *GroupClient) MoveMemberTo(ctx context.Context, destination, phoneNumber string) error {
	if strings.TrimSpace(destination) == "" {
		return newValidationError("destination group is required")
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return newValidationError("phone number is required")
	}
	params := map[string]string{"group": g.name, "new_group": destination, "number": phoneNumber}
	return g.sendRequiringGroup(ctx, "move_recipient", params, destination)
}

func (g *GroupClient) send(ctx context.Context, cmd string, params map[string]string) (string, error) {
	return g.client.invokeCommand(ctx, groupEndpoint, cmd, params)
}

// sendRequiringGroup sends a command that needs requiredGroup to exist.
// If the reply carries the missing-group sentinel for that group, the
// group is created and the identical command is resent once. The second
// reply is not inspected again.
func (g *GroupClient) sendRequiringGroup(ctx context.Context, cmd string, params map[string]string, requiredGroup string) error {
	reply, err := g.client.invokeCommand(ctx, groupEndpoint, cmd, params)
	if err != nil {
		return err
	}
	if !isMissingGroup(reply, requiredGroup) {
		return nil
	}

	if _, err := g.client.invokeCommand(ctx, groupEndpoint, "add_group", map[string]string{"group": requiredGroup}); err != nil {
		return err
	}

	_, err = g.client.invokeCommand(ctx, groupEndpoint, cmd, params)
	return err
}

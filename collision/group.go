package collision

import "fmt"

// CollisionGroup filters pairs with category/mask bits. Two bodies collide
// only when each one's category is in the other's mask.
type CollisionGroup struct {
	Name     string
	Category uint32
	Mask     uint32
}

// CollisionGroupAll collides with everything.
var CollisionGroupAll = CollisionGroup{Name: "all", Category: 0xFFFFFFFF, Mask: 0xFFFFFFFF}

func (g CollisionGroup) CanCollide(other CollisionGroup) bool {
	return g.Category&other.Mask != 0 && other.Category&g.Mask != 0
}

// Invert returns a group that collides with everything this group does not.
func (g CollisionGroup) Invert() CollisionGroup {
	return CollisionGroup{Name: "~(" + g.Name + ")", Category: ^g.Category, Mask: ^g.Mask}
}

// CollidesWith returns a group whose mask only accepts the given groups.
func CollidesWith(groups ...CollisionGroup) CollisionGroup {
	var mask uint32
	for _, g := range groups {
		mask |= g.Category
	}
	return CollisionGroup{Name: "collidesWith", Category: ^mask, Mask: mask}
}

const maxGroups = 32

// GroupManager hands out one category bit per named group.
type GroupManager struct {
	groups map[string]CollisionGroup
	next   uint
}

func NewGroupManager() *GroupManager {
	return &GroupManager{groups: make(map[string]CollisionGroup)}
}

// Create registers a group. The default mask collides with every other group
// but not with itself.
func (m *GroupManager) Create(name string) (CollisionGroup, error) {
	if m.groups == nil {
		m.groups = make(map[string]CollisionGroup)
	}
	if g, ok := m.groups[name]; ok {
		return g, fmt.Errorf("collision: group %q already exists", name)
	}
	if m.next >= maxGroups {
		return CollisionGroup{}, fmt.Errorf("collision: cannot create group %q, only %d groups allowed", name, maxGroups)
	}
	category := uint32(1) << m.next
	m.next++
	g := CollisionGroup{Name: name, Category: category, Mask: ^category}
	m.groups[name] = g
	return g, nil
}

// Group looks up a group by name.
func (m *GroupManager) Group(name string) (CollisionGroup, bool) {
	g, ok := m.groups[name]
	return g, ok
}

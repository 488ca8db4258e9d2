package auth

import "testing"

func TestCapabilities(t *testing.T) {
	t.Run("Test superadmin holds every capability", func(t *testing.T) {
		caps := Capabilities(RoleSuperadmin)
		for _, c := range []Capability{
			CapEventRead, CapEventWrite, CapEventStatus,
			CapParticipantRead, CapParticipantWrite, CapParticipantOptOut,
			CapRaffleRead, CapRaffleWrite, CapRaffleDraw, CapRaffleDelete,
			CapScoreWrite, CapUserManage,
		} {
			if !caps.Has(c) {
				t.Errorf("Expected superadmin to hold %s", c)
			}
		}
	})

	t.Run("Test org admin cannot manage accounts", func(t *testing.T) {
		caps := Capabilities(RoleOrgAdmin)
		if caps.Has(CapUserManage) {
			t.Error("Expected org_admin to lack user:manage")
		}
		if !caps.Has(CapRaffleDelete) {
			t.Error("Expected org_admin to hold raffle:delete")
		}
	})

	t.Run("Test staff runs draws but cannot manage events", func(t *testing.T) {
		caps := Capabilities(RoleStaff)
		if !caps.Has(CapRaffleDraw) {
			t.Error("Expected staff to hold raffle:draw")
		}
		if !caps.Has(CapRaffleDelete) {
			t.Error("Expected staff to hold raffle:delete")
		}
		if caps.Has(CapEventWrite) {
			t.Error("Expected staff to lack event:write")
		}
	})

	t.Run("Test viewer is read only", func(t *testing.T) {
		caps := Capabilities(RoleViewer)
		for _, c := range []Capability{CapEventWrite, CapEventStatus, CapParticipantWrite, CapParticipantOptOut, CapRaffleWrite, CapRaffleDraw, CapRaffleDelete, CapUserManage} {
			if caps.Has(c) {
				t.Errorf("Expected viewer to lack %s", c)
			}
		}
		if !caps.Has(CapEventRead) {
			t.Error("Expected viewer to hold event:read")
		}
	})

	t.Run("Test unknown role resolves to the empty set", func(t *testing.T) {
		caps := Capabilities(Role("manager"))
		if len(caps) != 0 {
			t.Errorf("Expected empty capability set, got %d entries", len(caps))
		}
	})

	t.Run("Test resolution is deterministic", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			if !Capabilities(RoleStaff).Has(CapRaffleDraw) {
				t.Fatal("Expected identical result on every resolution")
			}
		}
	})
}

func TestHasCapability(t *testing.T) {
	t.Run("Test judge flag grants scoring to a viewer", func(t *testing.T) {
		if HasCapability(RoleViewer, false, CapScoreWrite) {
			t.Error("Expected plain viewer to lack score:write")
		}
		if !HasCapability(RoleViewer, true, CapScoreWrite) {
			t.Error("Expected judge viewer to hold score:write")
		}
	})

	t.Run("Test judge flag grants scoring to staff too", func(t *testing.T) {
		if HasCapability(RoleStaff, false, CapScoreWrite) {
			t.Error("Expected plain staff to lack score:write")
		}
		if !HasCapability(RoleStaff, true, CapScoreWrite) {
			t.Error("Expected judge staff to hold score:write")
		}
	})

	t.Run("Test judge flag grants nothing else", func(t *testing.T) {
		if HasCapability(RoleViewer, true, CapRaffleDraw) {
			t.Error("Expected judge flag not to grant raffle:draw")
		}
	})

	t.Run("Test unknown role fails closed even as judge", func(t *testing.T) {
		if HasCapability(Role("ghost"), true, CapEventRead) {
			t.Error("Expected unknown role to be denied everything")
		}
	})
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSuperadmin, RoleOrgAdmin, RoleStaff, RoleViewer} {
		if !r.Valid() {
			t.Errorf("Expected %s to be valid", r)
		}
	}
	if Role("admin").Valid() {
		t.Error("Expected unlisted role to be invalid")
	}
}

package models

import (
	"testing"
)

func TestNormalizeMemberPairOrderIndependent(t *testing.T) {
	a1, r1, b1, s1 := NormalizeMemberPair(7, RoleClient, 3, RoleArtist)
	a2, r2, b2, s2 := NormalizeMemberPair(3, RoleArtist, 7, RoleClient)

	if a1 != a2 || b1 != b2 || r1 != r2 || s1 != s2 {
		t.Errorf("normalization depends on call order: (%d,%s,%d,%s) vs (%d,%s,%d,%s)",
			a1, r1, b1, s1, a2, r2, b2, s2)
	}

	if a1 != 3 || b1 != 7 {
		t.Errorf("pair = (%d, %d), want lower id first (3, 7)", a1, b1)
	}
	if r1 != RoleArtist || s1 != RoleClient {
		t.Errorf("roles must travel with their user: got (%s, %s)", r1, s1)
	}
}

func TestNormalizeMemberPairAlreadyOrdered(t *testing.T) {
	a, ra, b, rb := NormalizeMemberPair(1, RoleClient, 2, RoleArtist)
	if a != 1 || ra != RoleClient || b != 2 || rb != RoleArtist {
		t.Errorf("ordered pair must pass through unchanged, got (%d,%s,%d,%s)", a, ra, b, rb)
	}
}

func TestConversationMembership(t *testing.T) {
	conversation := &Conversation{UserAID: 3, UserBID: 7}

	if !conversation.HasMember(3) || !conversation.HasMember(7) {
		t.Error("both stored users are members")
	}
	if conversation.HasMember(5) {
		t.Error("a stranger is not a member")
	}

	if got := conversation.OtherMember(3); got != 7 {
		t.Errorf("OtherMember(3) = %d, want 7", got)
	}
	if got := conversation.OtherMember(7); got != 3 {
		t.Errorf("OtherMember(7) = %d, want 3", got)
	}
	if got := conversation.OtherMember(5); got != 0 {
		t.Errorf("OtherMember(stranger) = %d, want 0", got)
	}
}

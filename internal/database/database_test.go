package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/papochat/papo/internal/models"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	d := &Database{}
	if err := d.Connect(filepath.Join(t.TempDir(), "chat.db")); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return d
}

func mustUser(t *testing.T, d *Database, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := d.SaveUser(user); err != nil {
		t.Fatalf("SaveUser(%s): %v", email, err)
	}
	return user
}

func TestConnect_SeedsDefaultRoom(t *testing.T) {
	d := testDB(t)

	room, err := d.DefaultRoom()
	if err != nil {
		t.Fatalf("DefaultRoom: %v", err)
	}
	if room.Name != "Geral" {
		t.Errorf("default room name = %q, want Geral", room.Name)
	}
}

func TestSaveUser_DuplicateEmail(t *testing.T) {
	d := testDB(t)

	mustUser(t, d, "Ana", "ana@x.com")

	dup := &models.User{Name: "Other", Email: "ana@x.com", PasswordHash: "y"}
	if err := d.SaveUser(dup); err != ErrEmailTaken {
		t.Errorf("SaveUser duplicate = %v, want ErrEmailTaken", err)
	}

	// Original account still resolvable.
	user, err := d.FindUserByEmail("ana@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if user.Name != "Ana" {
		t.Errorf("found user name = %q, want Ana", user.Name)
	}
}

func TestFindUserByEmail_NormalizesCase(t *testing.T) {
	d := testDB(t)

	mustUser(t, d, "Ana", "Ana@X.com")

	user, err := d.FindUserByEmail("  ANA@x.COM ")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if user.Email != "ana@x.com" {
		t.Errorf("stored email = %q, want lowercase", user.Email)
	}

	if _, err := d.FindUserByEmail("missing@x.com"); err != ErrUserNotFound {
		t.Errorf("FindUserByEmail unknown = %v, want ErrUserNotFound", err)
	}
}

func TestRooms_CreateJoinLeave(t *testing.T) {
	d := testDB(t)
	user := mustUser(t, d, "Ana", "ana@x.com")

	room := &models.Room{Name: "games"}
	if err := d.CreateRoom(room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if err := d.CreateRoom(&models.Room{Name: "games"}); err != ErrRoomExists {
		t.Errorf("duplicate CreateRoom = %v, want ErrRoomExists", err)
	}

	if err := d.AddUserToRoom(user.ID, room.ID); err != nil {
		t.Fatalf("AddUserToRoom: %v", err)
	}
	// Joining twice is a no-op.
	if err := d.AddUserToRoom(user.ID, room.ID); err != nil {
		t.Fatalf("second AddUserToRoom: %v", err)
	}

	member, err := d.IsMember(user.ID, room.ID)
	if err != nil || !member {
		t.Errorf("IsMember = %v, %v; want true, nil", member, err)
	}

	rooms, err := d.GetUserRooms(user.ID)
	if err != nil {
		t.Fatalf("GetUserRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "games" {
		t.Errorf("GetUserRooms = %v, want [games]", rooms)
	}

	if err := d.RemoveUserFromRoom(user.ID, room.ID); err != nil {
		t.Fatalf("RemoveUserFromRoom: %v", err)
	}
	member, _ = d.IsMember(user.ID, room.ID)
	if member {
		t.Error("IsMember after leave = true, want false")
	}
}

func TestRoomHistory_OrderAndCap(t *testing.T) {
	d := testDB(t)
	user := mustUser(t, d, "Ana", "ana@x.com")
	room := &models.Room{Name: "busy"}
	if err := d.CreateRoom(room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	const total = historyLimit + 10
	for i := 0; i < total; i++ {
		msg := &models.Message{
			Type:     models.MessageTypeRoom,
			RoomID:   &room.ID,
			SenderID: user.ID,
			Content:  fmt.Sprintf("msg %d", i),
		}
		if err := d.SaveMessage(msg); err != nil {
			t.Fatalf("SaveMessage(%d): %v", i, err)
		}
	}

	history, err := d.RoomHistory(room.ID)
	if err != nil {
		t.Fatalf("RoomHistory: %v", err)
	}
	if len(history) != historyLimit {
		t.Fatalf("history length = %d, want %d", len(history), historyLimit)
	}

	// Most recent rows only, ascending by id.
	for i := 1; i < len(history); i++ {
		if history[i].ID <= history[i-1].ID {
			t.Fatalf("history not ascending at index %d", i)
		}
	}
	if history[len(history)-1].Content != fmt.Sprintf("msg %d", total-1) {
		t.Errorf("last message = %q, want the most recent", history[len(history)-1].Content)
	}
	if history[0].Sender.Name != "Ana" {
		t.Errorf("sender not preloaded, got %q", history[0].Sender.Name)
	}
}

func TestDMHistory_Symmetric(t *testing.T) {
	d := testDB(t)
	ana := mustUser(t, d, "Ana", "ana@x.com")
	bia := mustUser(t, d, "Bia", "bia@x.com")
	caio := mustUser(t, d, "Caio", "caio@x.com")

	save := func(from, to uint, content string) {
		t.Helper()
		msg := &models.Message{Type: models.MessageTypeDM, SenderID: from, RecipientID: &to, Content: content}
		if err := d.SaveMessage(msg); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	save(ana.ID, bia.ID, "oi bia")
	save(bia.ID, ana.ID, "oi ana")
	save(ana.ID, caio.ID, "oi caio")

	history, err := d.DMHistory(ana.ID, bia.ID)
	if err != nil {
		t.Fatalf("DMHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 (both directions, no third parties)", len(history))
	}
	if history[0].Content != "oi bia" || history[1].Content != "oi ana" {
		t.Errorf("history = [%q, %q], want ascending order", history[0].Content, history[1].Content)
	}

	// Same conversation from the other side.
	mirrored, err := d.DMHistory(bia.ID, ana.ID)
	if err != nil {
		t.Fatalf("DMHistory mirrored: %v", err)
	}
	if len(mirrored) != 2 {
		t.Errorf("mirrored history length = %d, want 2", len(mirrored))
	}
}

func TestDmContacts(t *testing.T) {
	d := testDB(t)
	ana := mustUser(t, d, "Ana", "ana@x.com")
	bia := mustUser(t, d, "Bia", "bia@x.com")

	if err := d.AddDmContact(ana.ID, bia.ID); err != nil {
		t.Fatalf("AddDmContact: %v", err)
	}
	// Saving twice is a no-op.
	if err := d.AddDmContact(ana.ID, bia.ID); err != nil {
		t.Fatalf("second AddDmContact: %v", err)
	}

	contacts, err := d.ListDmContacts(ana.ID)
	if err != nil {
		t.Fatalf("ListDmContacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Bia" {
		t.Errorf("contacts = %v, want [Bia]", contacts)
	}

	// The relation is one-directional.
	reverse, _ := d.ListDmContacts(bia.ID)
	if len(reverse) != 0 {
		t.Errorf("reverse contacts = %d, want 0", len(reverse))
	}

	if err := d.RemoveDmContact(ana.ID, bia.ID); err != nil {
		t.Fatalf("RemoveDmContact: %v", err)
	}
	contacts, _ = d.ListDmContacts(ana.ID)
	if len(contacts) != 0 {
		t.Errorf("contacts after remove = %d, want 0", len(contacts))
	}
}

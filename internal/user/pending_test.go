package user

import (
	"testing"
	"time"
)

func TestPendingStore_TakeRemovesEntry(t *testing.T) {
	s := NewPendingStore(time.Minute)
	defer s.Close()

	s.Put(&Pending{TempID: "t1", Email: "a@gmail.com"})
	p, ok := s.Take("t1")
	if !ok || p.Email != "a@gmail.com" {
		t.Fatalf("Take failed: ok=%v p=%+v", ok, p)
	}
	if _, ok := s.Take("t1"); ok {
		t.Fatal("entry should be gone after Take")
	}
}

func TestPendingStore_ExpiredEntryNotReturned(t *testing.T) {
	s := NewPendingStore(-time.Second) // everything is already expired
	defer s.Close()

	s.Put(&Pending{TempID: "t1"})
	if _, ok := s.Take("t1"); ok {
		t.Fatal("expired entry should not be returned")
	}
	if s.Len() != 0 {
		t.Fatalf("len=%d, expected 0", s.Len())
	}
}

func TestValidEmailDomain(t *testing.T) {
	cases := map[string]bool{
		"jane@gmail.com":              true,
		"JANE@GMAIL.COM":              true,
		"s123@student.tarc.edu.my":    true,
		"jane@hotmail.com":            false,
		"jane@gmail.com.evil.example": false,
	}
	for email, want := range cases {
		if got := ValidEmailDomain(email); got != want {
			t.Fatalf("ValidEmailDomain(%q)=%v, expected %v", email, got, want)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(h, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(h, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

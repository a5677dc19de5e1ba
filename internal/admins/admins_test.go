package admins

import (
	"reflect"
	"testing"
)

func TestFromStrings(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []int64
		wantErr bool
	}{
		{
			name: "plain ids",
			in:   []string{"123", "456"},
			want: []int64{123, 456},
		},
		{
			name: "whitespace and blanks ignored",
			in:   []string{" 123 ", "", "  "},
			want: []int64{123},
		},
		{
			name: "empty input",
			in:   nil,
			want: []int64{},
		},
		{
			name:    "non-numeric id",
			in:      []string{"123", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := FromStrings(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromStrings(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := r.List(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry([]int64{1})

	if !r.IsAdmin(1) {
		t.Error("IsAdmin(1) = false after NewRegistry")
	}
	if r.IsAdmin(2) {
		t.Error("IsAdmin(2) = true, want false")
	}

	if !r.Add(2) {
		t.Error("Add(2) = false, want true")
	}
	if r.Add(2) {
		t.Error("Add(2) twice = true, want false")
	}
	if !r.IsAdmin(2) {
		t.Error("IsAdmin(2) = false after Add")
	}

	if !r.Remove(1) {
		t.Error("Remove(1) = false, want true")
	}
	if r.Remove(1) {
		t.Error("Remove(1) twice = true, want false")
	}
	if r.IsAdmin(1) {
		t.Error("IsAdmin(1) = true after Remove")
	}

	if got := r.List(); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("List() = %v, want [2]", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	r := NewRegistry([]int64{30, 10, 20})
	if got := r.List(); !reflect.DeepEqual(got, []int64{10, 20, 30}) {
		t.Errorf("List() = %v, want ascending order", got)
	}
}

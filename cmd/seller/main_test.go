package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectReceiptArgs(t *testing.T) {
	t.Parallel()

	const id = "0f3c2a1e-5b7d-4c8e-9a10-2b3c4d5e6f70"
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"seller"},
			want: []string{"seller"},
		},
		{
			name: "order id first token",
			in:   []string{"seller", id},
			want: []string{"seller", "orders", "receipt", id},
		},
		{
			name: "order id after value flag",
			in:   []string{"seller", "--config-dir", "./tmp-test", id},
			want: []string{"seller", "--config-dir", "./tmp-test", "orders", "receipt", id},
		},
		{
			name: "order id after equals flag",
			in:   []string{"seller", "--base-url=http://127.0.0.1:8080/api/v1", id},
			want: []string{"seller", "--base-url=http://127.0.0.1:8080/api/v1", "orders", "receipt", id},
		},
		{
			name: "order id after bool flag",
			in:   []string{"seller", "--pretty", id},
			want: []string{"seller", "--pretty", "orders", "receipt", id},
		},
		{
			name: "order id after double dash",
			in:   []string{"seller", "--format", "yaml", "--", id},
			want: []string{"seller", "--format", "yaml", "--", "orders", "receipt", id},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"seller", "orders", "receipt", id},
			want: []string{"seller", "orders", "receipt", id},
		},
		{
			name: "short id not rewritten",
			in:   []string{"seller", "0f3c2a1e"},
			want: []string{"seller", "0f3c2a1e"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectReceiptArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectReceiptArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

package main

import (
	"context"
	"transparencia-backend/cmd/receita-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}

package main

import "github.com/Roshanchokhani/rag-document-qa/internal/cli"

func main() {
	cli.Execute()
}

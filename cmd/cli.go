package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"gorm.io/entitymap"
	"gorm.io/entitymap/cli"
	"gorm.io/entitymap/schema"
)

func main() {
	// --- Flags ---
	configPath := flag.String("config", "", "Context config, YAML or TOML")
	schemaPath := flag.String("schema", "", "YAML class descriptors to compile")
	className := flag.String("class", "", "Compile only this class of the descriptors")
	nextID := flag.Int("next-id", 0, "Open the db groups and draw this many ids of each compiled business")
	dialectName := flag.String("dialect", "mysql", "Dialect of the default db group when no config is given")

	modelName := flag.String("name", "", "Class name of a new descriptor, e.g.: User")
	attributes := flag.String("attributes", "", "Class attributes, e.g.: name:string,email:string")
	overrides := flag.String("overrides", "", "Attribute overrides, e.g.: name:user_name")
	initDB := flag.String("init", "", "Write a context config for a db type: mysql, postgres, sqlite3, mssql, oracle")
	dsn := flag.String("dsn", "", "DSN of the default db group written by -init")

	flag.Parse()

	if *initDB != "" {
		path := *configPath
		if path == "" {
			path = "entitymap.yaml"
		}
		if err := cli.GenerateConfig(path, *initDB, *dsn); err != nil {
			log.Fatal("Failed to create config:", err)
		}
		fmt.Println(path, "created successfully for", *initDB)
		return
	}

	if *modelName != "" {
		if err := newDescriptor(*schemaPath, *modelName, *attributes, *overrides); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Done!")
		return
	}

	if *schemaPath == "" {
		fmt.Println("Use : entitymap -config entitymap.yaml -schema classes.yaml [-class User] [-next-id 3]")
		return
	}

	if err := compile(*configPath, *dialectName, *schemaPath, *className, *nextID); err != nil {
		log.Fatal(err)
	}
}

func newDescriptor(path, name, attributes, overrides string) error {
	if path == "" {
		return fmt.Errorf("-schema is required to write a descriptor")
	}

	fields, err := cli.ParseFields(attributes)
	if err != nil {
		return err
	}
	class, err := cli.NewEntity(name, "", fields)
	if err != nil {
		return err
	}

	if overrides != "" {
		o, err := cli.ParseOverrides(overrides)
		if err != nil {
			return err
		}
		cli.AddOverrides(class, o)
	}
	return cli.WriteDescriptors(path, class)
}

func compile(configPath, dialectName, schemaPath, className string, nextID int) error {
	config := &entitymap.Config{
		DBGroups: []entitymap.DBGroupConfig{{Name: entitymap.DefaultDBGroupName, Dialect: dialectName}},
	}
	if configPath != "" {
		var err error
		if config, err = entitymap.LoadConfig(configPath); err != nil {
			return err
		}
	}

	doc, err := schema.LoadYAMLFile(schemaPath)
	if err != nil {
		return err
	}

	classes := doc.Entities()
	if className != "" {
		class, ok := doc.Class(className)
		if !ok {
			return fmt.Errorf("class %s not found in %s", className, schemaPath)
		}
		classes = []*schema.Class{class}
	}

	open := entitymap.New
	if nextID > 0 {
		open = entitymap.Open
	}
	c, err := open(config)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	ctx := context.Background()
	// named generators of the whole document, -class may pick an entity referencing another class's
	for _, class := range doc.Classes {
		c.RegisterIDGenerators(ctx, class)
	}
	mappings, err := c.Compile(ctx, classes...)
	if err != nil {
		return err
	}
	for _, m := range mappings {
		if err := cli.PrintMapping(os.Stdout, m); err != nil {
			return err
		}
	}

	if nextID <= 0 {
		return nil
	}
	if err := c.Start(ctx); err != nil {
		return err
	}

	for _, m := range mappings {
		generator := m.Table().Generator
		if !generator.InsertBefore() {
			fmt.Printf("business %s: ids are assigned by the database on insert\n", m.Business().Name)
			continue
		}
		for i := 0; i < nextID; i++ {
			v, err := generator.Generate(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("business %s: next id %d\n", m.Business().Name, v)
		}
	}
	return nil
}

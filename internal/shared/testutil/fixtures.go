package testutil

// CitySalesCSV is the two-column table used by filter scenarios:
// NYC appears twice, LA once.
const CitySalesCSV = "City,Sales\nNYC,10\nLA,20\nNYC,30\n"

// PeopleCSV mixes numeric and categorical columns with missing cells.
const PeopleCSV = `Name,Age,Salary,Dept,Status
Ann,30,50000,Eng,A
Bob,25,40000,Ops,A
Cid,30,70000,Eng,B
Dee,40,90000,HR,
Eve,25,44000,Ops,A
Fay,,10000,Eng,B
`

// StatusCSV has a single categorical column with values A, A, B.
const StatusCSV = "Status\nA\nA\nB\n"

// TextOnlyCSV has no numeric column.
const TextOnlyCSV = "Name,City\nann,NYC\nbob,LA\n"
